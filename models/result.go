package models

import (
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// ResultStatus is the grading state of a submission
type ResultStatus string

const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusGraded  ResultStatus = "graded"
	ResultStatusFailed  ResultStatus = "failed"
)

// Result is a submission outcome. It has no course_id of its own; visibility
// always traverses result -> course_content -> course. Either CourseMemberID
// (individual submit) or CourseSubmissionGroupID (group submit) links it back
// to the people allowed to see it at student rank.
type Result struct {
	BaseModel

	CourseContentID         *datatypes.UUID `gorm:"type:uuid;not null;index" json:"courseContentId"`
	CourseMemberID          *datatypes.UUID `gorm:"type:uuid;index" json:"courseMemberId"`
	CourseSubmissionGroupID *datatypes.UUID `gorm:"type:uuid;index" json:"courseSubmissionGroupId"`

	Submit  string       `json:"submit"`
	Grading float64      `json:"grading"`
	Status  ResultStatus `gorm:"not null;default:'pending'" json:"status"`
}
