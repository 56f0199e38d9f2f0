package permission

import (
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/courserole"
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// The builders here return un-executed *gorm.DB values meant to be embedded
// into an outer query with QueryExpr(). They never write and keep no state;
// an empty membership simply yields an empty IN set downstream.

// UserCoursesQuery is the set of course ids where the user holds a role whose
// rank is at least min. The rank comparison is expressed as an explicit IN
// over the qualifying role names so the filter runs in the database, not by
// materializing membership rows client-side.
func UserCoursesQuery(db *gorm.DB, userID *datatypes.UUID, min courserole.Role) *gorm.DB {
	return db.Table("course_member").
		Select(`"course_member".course_id`).
		Where(`"course_member".user_id = ? AND "course_member".course_role IN (?)`,
			userID, courserole.AtLeast(min))
}

// VisibleUsersQuery returns the user ids the principal may see: themself,
// plus every co-member of any course where the principal holds tutor rank or
// above. Students do not get a roster of their peers.
func VisibleUsersQuery(db *gorm.DB, userID *datatypes.UUID) *gorm.DB {
	return db.Table("course_member").
		Select(`"course_member".user_id`).
		Where(`"course_member".course_id IN (SELECT "course_member".course_id FROM "course_member" WHERE "course_member".user_id = ? AND "course_member".course_role IN (?))`,
			userID, courserole.AtLeast(courserole.RoleTutor))
}

// CourseOrganizationsQuery is the set of organization ids visible through
// course membership: organizations owning any course where the user holds at
// least min.
func CourseOrganizationsQuery(db *gorm.DB, userID *datatypes.UUID, min courserole.Role) *gorm.DB {
	return db.Table("course").
		Select(`"course".organization_id`).
		Where(`"course".id IN (SELECT "course_member".course_id FROM "course_member" WHERE "course_member".user_id = ? AND "course_member".course_role IN (?))`,
			userID, courserole.AtLeast(min))
}

// UserCourseMembersQuery is the set of course_member ids belonging to the
// user themself, across all courses. Used for the "directly mine" leg of the
// result filter.
func UserCourseMembersQuery(db *gorm.DB, userID *datatypes.UUID) *gorm.DB {
	return db.Table("course_member").
		Select(`"course_member".id`).
		Where(`"course_member".user_id = ?`, userID)
}

// UserSubmissionGroupsQuery is the set of submission group ids the user is in
// via any of their course-member rows.
func UserSubmissionGroupsQuery(db *gorm.DB, userID *datatypes.UUID) *gorm.DB {
	return db.Table("course_submission_group_member").
		Select(`"course_submission_group_member".course_submission_group_id`).
		Joins(`INNER JOIN "course_member" ON "course_member".id = "course_submission_group_member".course_member_id`).
		Where(`"course_member".user_id = ?`, userID)
}

// CourseContentsQuery is the set of course_content ids in courses where the
// user holds at least min. The membership subquery is inlined so the whole
// thing stays one nesting level when embedded by a caller.
func CourseContentsQuery(db *gorm.DB, userID *datatypes.UUID, min courserole.Role) *gorm.DB {
	return db.Table("course_content").
		Select(`"course_content".id`).
		Where(`"course_content".course_id IN (SELECT "course_member".course_id FROM "course_member" WHERE "course_member".user_id = ? AND "course_member".course_role IN (?))`,
			userID, courserole.AtLeast(min))
}
