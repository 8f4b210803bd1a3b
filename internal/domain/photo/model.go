package photo

import (
	"encoding/json"
	"time"
)

// Photo rows are ingested by the library scanner; the API only reads them and
// patches metadata. Visibility derives from project_members on ProjectID.
type Photo struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	ProjectID     string          `gorm:"type:uuid;not null;index"`
	LibraryID     string          `gorm:"type:uuid;not null;index"`
	Filename      string          `gorm:"type:text;not null"`
	AbsolutePath  string          `gorm:"type:text;not null"`
	ThumbnailPath *string         `gorm:"type:text"`
	Hash          *string         `gorm:"type:text"`
	Metadata      json.RawMessage `gorm:"type:jsonb"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
}

type ListFilter struct {
	ProjectID string
	LibraryID string
	Search    string
	// Decision filters by the caller's own review decision on each photo.
	Decision *int16
	Limit    int
	Offset   int
}

type UpdateInput struct {
	Metadata      json.RawMessage
	ThumbnailPath *string
}
