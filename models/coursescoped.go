package models

import (
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// CourseScoped is implemented by rows that carry their owning course
// directly. The router uses it to fill the permission ActionContext without
// knowing concrete types.
type CourseScoped interface {
	GetCourseID() *datatypes.UUID
}

func (m *CourseMember) GetCourseID() *datatypes.UUID      { return m.CourseID }
func (m *CourseContent) GetCourseID() *datatypes.UUID     { return m.CourseID }
func (m *CourseContentType) GetCourseID() *datatypes.UUID { return m.CourseID }
