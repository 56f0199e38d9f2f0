package models

import (
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// CourseContentType describes a kind of content a course offers
// (assignment, unit, reading). Owned by a course; any member of the course
// may read it, editing requires lecturer rank in that course.
type CourseContentType struct {
	BaseModel

	CourseID *datatypes.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Slug     string          `gorm:"not null" json:"slug"`
	Title    string          `gorm:"not null" json:"title"`
}
