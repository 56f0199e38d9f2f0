package models

// Organization groups courses (a university, a department, a company team).
type Organization struct {
	BaseModel

	Name string `gorm:"not null;unique_index" json:"name"`
}
