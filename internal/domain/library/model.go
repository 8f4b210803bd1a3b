package library

import "time"

const (
	StatusActive     = "active"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

// Library has no membership table of its own: visibility derives entirely
// from project_members on the parent project.
type Library struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Description  *string   `gorm:"type:text"`
	AbsolutePath string    `gorm:"type:text;not null"`
	ProjectID    string    `gorm:"type:uuid;not null;index"`
	Status       string    `gorm:"type:varchar(16);not null;default:active"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedBy    string    `gorm:"type:uuid;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// The table predates plural naming.
func (Library) TableName() string {
	return "library"
}

type ListFilter struct {
	ProjectID string
	Limit     int
	Offset    int
}

type CreateInput struct {
	ProjectID    string
	Name         string
	AbsolutePath string
	Description  *string
}

// NullString distinguishes an omitted patch field from an explicit null.
type NullString struct {
	Set   bool
	Value *string
}

type UpdateInput struct {
	Name        *string
	Description NullString
	Status      *string
	IsActive    *bool
}
