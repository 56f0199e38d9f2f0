package models

import (
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// CourseSubmissionGroup is a group of course members handing in one piece of
// content together.
type CourseSubmissionGroup struct {
	BaseModel

	CourseContentID *datatypes.UUID `gorm:"type:uuid;not null;index" json:"courseContentId"`
	MaxSize         int             `json:"maxSize"`
}

// CourseSubmissionGroupMember puts one course member into one submission
// group. Membership here is what lets a student see group results that are
// not directly their own.
type CourseSubmissionGroupMember struct {
	BaseModel

	CourseSubmissionGroupID *datatypes.UUID `gorm:"type:uuid;not null;unique_index:idx_csgm_group_member" json:"courseSubmissionGroupId"`
	CourseMemberID          *datatypes.UUID `gorm:"type:uuid;not null;unique_index:idx_csgm_group_member" json:"courseMemberId"`
}
