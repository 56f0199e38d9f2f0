package models

import (
	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// CourseMember links a user to a course with one course role. A user holding
// several roles in the same course simply has several rows.
type CourseMember struct {
	BaseModel

	CourseID   *datatypes.UUID `gorm:"type:uuid;not null;unique_index:idx_course_member_course_user_role" json:"courseId"`
	UserID     *datatypes.UUID `gorm:"type:uuid;not null;unique_index:idx_course_member_course_user_role" json:"userId"`
	CourseRole courserole.Role `gorm:"not null;unique_index:idx_course_member_course_user_role" json:"courseRole"`
}

// Validate rejects role identifiers outside the hierarchy before they hit
// the db, since an unknown role would be invisible to every filter.
func (m *CourseMember) Validate() error {
	if err := m.BaseModel.Validate(); err != nil {
		return err
	}
	if !courserole.Valid(m.CourseRole) {
		return &InvalidCourseRoleError{Role: string(m.CourseRole)}
	}
	return nil
}

// InvalidCourseRoleError is returned when a membership row carries a role
// identifier that is not part of the hierarchy.
type InvalidCourseRoleError struct {
	Role string
}

func (e *InvalidCourseRoleError) Error() string {
	return "invalid course role: " + e.Role
}
