package models

import "time"

// ProjectMembership grants a non-owner user a role in a project. The owner never
// has a row.
type ProjectMembership struct {
	ProjectID uint64      `gorm:"primarykey" json:"project_id"`
	UserID    uint64      `gorm:"primarykey;index" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt  time.Time   `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// Participant is a project member as presented to callers, including the
// synthesized owner entry.
type Participant struct {
	User User
	Role ProjectRole
}
