package project

import "time"

const (
	StatusActive     = "active"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
)

type Project struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Status    string    `gorm:"type:varchar(16);not null;default:active"`
	IsActive  bool      `gorm:"not null;default:true"`
	RootPath  string    `gorm:"type:text;not null"`
	CreatedBy string    `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Member is one row of the project membership table, the authorization root
// for everything under a project.
type Member struct {
	ProjectID string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;primaryKey"`
	IsOwner   bool      `gorm:"not null;default:false"`
	JoinedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Member) TableName() string {
	return "project_members"
}

// MemberInfo is a membership row joined with the member's user record, as
// returned by member listings.
type MemberInfo struct {
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsOwner   bool      `json:"isOwner"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type ListFilter struct {
	Status   string
	IsActive *bool
	Limit    int
	Offset   int
}

type UpdateInput struct {
	Name     *string
	Status   *string
	IsActive *bool
	RootPath *string
}
