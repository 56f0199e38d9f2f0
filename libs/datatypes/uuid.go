package datatypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	uuid "github.com/satori/go.uuid"
)

// UUID is the id type for every table. Stored as the native uuid type in
// Postgres.
type UUID struct {
	UUID uuid.UUID
}

// NewUUID generates a UUID that's partly V1 and partly V4.
// Like V4, but the V1 timestamp portion keeps inserts roughly clustered
// (index locality).
func NewUUID() *UUID {
	toks1 := strings.SplitN(uuid.NewV1().String(), "-", 2)
	toks2 := strings.SplitN(uuid.NewV4().String(), "-", 2)
	u, err := uuid.FromString(toks1[0] + "-" + toks2[1])
	if err != nil {
		panic("NewUUID() error: " + err.Error())
	}

	return &UUID{UUID: u}
}

// NewUUIDFromString creates UUID from string
func NewUUIDFromString(s string) (u *UUID, err error) {
	u = &UUID{}
	u.UUID, err = uuid.FromString(s)
	return u, err
}

// NewUUIDFromStringNoErr creates UUID from a string known to be well-formed
// (fixtures, tests). Panics otherwise.
func NewUUIDFromStringNoErr(s string) *UUID {
	u, err := NewUUIDFromString(s)
	if err != nil {
		panic("NewUUIDFromStringNoErr: " + err.Error())
	}
	return u
}

func (u *UUID) String() string {
	return u.UUID.String()
}

// Value satisfies the Valuer interface and is responsible for writing data to the database
func (u *UUID) Value() (driver.Value, error) {
	if u == nil {
		return nil, nil
	}

	return []uint8(u.UUID.String()), nil
}

// Scan satisfies the Scanner interface and is responsible for reading data from the database.
// Postgres hands back []uint8 or string depending on the driver path, so take both.
func (u *UUID) Scan(src interface{}) error {
	if src == nil {
		return nil
	}

	var err error
	switch s := src.(type) {
	case []uint8:
		u.UUID, err = uuid.FromString(string(s))
		return err
	case string:
		u.UUID, err = uuid.FromString(s)
		return err
	}

	return fmt.Errorf("did not scan: expected []uint8 or string but was %T", src)
}

// UnmarshalJSON accepts quoted UUID strings
func (u *UUID) UnmarshalJSON(b []byte) (err error) {
	if len(b) > 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}

	uu, err := uuid.FromString(string(b))
	u.UUID = uu
	return err
}

// MarshalJSON renders the UUID as a quoted string
func (u *UUID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", u.UUID.String())), nil
}

// Equal reports whether two possibly-nil UUIDs refer to the same id
func (u *UUID) Equal(other *UUID) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.UUID == other.UUID
}
