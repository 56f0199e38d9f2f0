package models

import (
	"github.com/asaskevich/govalidator"
)

// User is an account known to the system. Whether a user can see another
// user is decided by the permission layer (co-membership at tutor rank or
// above), not here.
type User struct {
	BaseModel

	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `gorm:"not null" json:"lastName"`
	Email     string `gorm:"not null;type:varchar(100);unique_index" json:"email" valid:"email"`

	// External SSO subject. Token exchange itself is not this backend's
	// business; we only keep the linkage.
	Subject string `gorm:"unique_index" json:"subject"`
}

// Validate also runs the field tags (the embedded base only validates
// itself).
func (m *User) Validate() error {
	if ok, err := govalidator.ValidateStruct(m); !ok && err != nil {
		return err
	}
	return nil
}
