package models

import (
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/jinzhu/gorm"

	"github.com/lektor-lms/lektor/libs/datatypes"
)

// IModel is what every row model satisfies, so the generic router can treat
// them uniformly.
type IModel interface {
	GetID() *datatypes.UUID
	SetID(id *datatypes.UUID)
	Validate() error
}

// BaseModel is the base domain model with the standard id and timestamps.
// Tables are singular (course, not courses).
type BaseModel struct {
	ID        *datatypes.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time       `sql:"index" json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *time.Time      `sql:"index" json:"deletedAt"`
}

// GetID gets the ID field of the model (useful when using interface)
func (b *BaseModel) GetID() *datatypes.UUID {
	return b.ID
}

// SetID sets the ID field of the model (useful when using interface)
func (b *BaseModel) SetID(id *datatypes.UUID) {
	b.ID = id
}

// BeforeCreate sets a UUID if no ID is set
// (this is Gorm's hookpoint)
func (b *BaseModel) BeforeCreate(scope *gorm.Scope) error {
	if b.ID == nil {
		uuid := datatypes.NewUUID()
		return scope.SetColumn("ID", uuid)
	}

	return nil
}

// Validate validates the model
func (b *BaseModel) Validate() error {
	if ok, err := govalidator.ValidateStruct(b); !ok && err != nil {
		return err
	}
	return nil
}
