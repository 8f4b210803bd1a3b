package review

import "time"

const (
	DecisionReject int16 = -1
	DecisionAccept int16 = 1
)

// PhotoReview is one user's private judgment of one photo. At most one row
// exists per (photo, user) pair; the unique constraint is the serialization
// point for concurrent upserts.
type PhotoReview struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	PhotoID   string     `gorm:"type:uuid;not null;uniqueIndex:uq_photo_reviews_photo_user"`
	UserID    string     `gorm:"type:uuid;not null;uniqueIndex:uq_photo_reviews_photo_user"`
	LibraryID string     `gorm:"type:uuid;not null"`
	Seen      bool       `gorm:"not null;default:true"`
	Decision  *int16     `gorm:"type:smallint"`
	RenamedTo *string    `gorm:"type:text"`
	SeenAt    time.Time  `gorm:"not null"`
	VotedAt   *time.Time
}

// NullInt16 and NullString distinguish an omitted field from an explicit
// null, so a merge can tell "leave alone" apart from "clear".
type NullInt16 struct {
	Set   bool
	Value *int16
}

type NullString struct {
	Set   bool
	Value *string
}

type UpsertInput struct {
	PhotoID   string
	LibraryID string
	Seen      *bool
	Decision  NullInt16
	RenamedTo NullString
}

// MergeSpec is the set of column assignments applied when the (photo, user)
// row already exists. Only explicitly supplied fields appear; SeenAt is
// always refreshed.
type MergeSpec struct {
	SeenAt      time.Time
	Seen        *bool
	SetDecision bool
	Decision    *int16
	VotedAt     *time.Time
	SetRenamed  bool
	RenamedTo   *string
}

type ListFilter struct {
	ProjectID string
	LibraryID string
	Decision  *int16
	Limit     int
	Offset    int
}
