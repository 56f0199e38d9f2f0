package models

import (
	"github.com/lektor-lms/lektor/libs/datatypes"
)

// Course is one course instance (one term). All dependent claims hang off
// its id.
type Course struct {
	BaseModel

	OrganizationID *datatypes.UUID `gorm:"type:uuid;not null;index" json:"organizationId"`
	Name           string          `gorm:"not null" json:"name"`
	Term           string          `json:"term"`
}
