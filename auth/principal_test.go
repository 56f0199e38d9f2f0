package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

var (
	courseA = datatypes.NewUUIDFromStringNoErr("1e98bfc3-2721-492a-bfd3-09f7dd3c1565")
	courseB = datatypes.NewUUIDFromStringNoErr("d113ed09-cfc5-47a5-b35c-6f60c49cbd08")
	courseC = datatypes.NewUUIDFromStringNoErr("608a717a-bb4c-4a89-9038-457c3e4fc5e0")
)

func principalTutorAStudentB() *Principal {
	return &Principal{
		UserID: datatypes.NewUUID(),
		Roles:  []string{"_user"},
		Claims: Claims{
			General: map[GeneralClaim]bool{
				{Resource: "organization", Action: ActionCreate}: true,
			},
			Dependent: map[string]map[string][]courserole.Role{
				ResourceCourse: {
					courseA.String(): {courserole.RoleTutor},
					courseB.String(): {courserole.RoleStudent},
				},
			},
		},
	}
}

func TestHasGeneral(t *testing.T) {
	p := principalTutorAStudentB()

	assert.True(t, p.HasGeneral("organization", ActionCreate))
	assert.False(t, p.HasGeneral("organization", ActionDelete))
	assert.False(t, p.HasGeneral("course", ActionCreate))
}

func TestHasGeneral_NilClaims(t *testing.T) {
	p := &Principal{UserID: datatypes.NewUUID()}
	assert.False(t, p.HasGeneral("course", ActionList))
}

func TestCourseRoles_DifferentRolesInDifferentCourses(t *testing.T) {
	p := principalTutorAStudentB()

	assert.Equal(t, []courserole.Role{courserole.RoleTutor}, p.CourseRoles(courseA))
	assert.Equal(t, []courserole.Role{courserole.RoleStudent}, p.CourseRoles(courseB))
	assert.Empty(t, p.CourseRoles(courseC))
	assert.Empty(t, p.CourseRoles(nil))
}

func TestHasCourseRole(t *testing.T) {
	p := principalTutorAStudentB()

	assert.True(t, p.HasCourseRole(courseA, courserole.RoleTutor))
	assert.True(t, p.HasCourseRole(courseA, courserole.RoleStudent))
	assert.False(t, p.HasCourseRole(courseA, courserole.RoleLecturer))
	assert.False(t, p.HasCourseRole(courseB, courserole.RoleTutor))
	assert.False(t, p.HasCourseRole(courseC, courserole.RoleStudent))
}

func TestHasCourseRole_AnyOfMultipleRolesSuffices(t *testing.T) {
	p := principalTutorAStudentB()
	p.Claims.Dependent[ResourceCourse][courseC.String()] =
		[]courserole.Role{courserole.RoleStudent, courserole.RoleMaintainer}

	assert.True(t, p.HasCourseRole(courseC, courserole.RoleLecturer))
}
