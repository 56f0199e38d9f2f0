package models

import (
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// CourseContent is one piece of content within a course, e.g. one
// assignment. Results reach their course only through this table.
type CourseContent struct {
	BaseModel

	CourseID            *datatypes.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	CourseContentTypeID *datatypes.UUID `gorm:"type:uuid;not null;index" json:"courseContentTypeId"`
	Title               string          `gorm:"not null" json:"title"`
	Position            int             `json:"position"`
}
