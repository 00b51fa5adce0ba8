package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

type Invitation struct {
	ID            uint64           `gorm:"primarykey" json:"id"`
	ProjectID     uint64           `gorm:"not null;index" json:"project_id"`
	InvitedUserID uint64           `gorm:"not null;index" json:"invited_user_id"`
	InviterID     uint64           `gorm:"not null" json:"inviter_id"`
	Role          ProjectRole      `gorm:"type:varchar(20);not null" json:"role"`
	Status        InvitationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RespondedAt   *time.Time       `json:"responded_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relations
	Project     *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	InvitedUser *User    `gorm:"foreignKey:InvitedUserID;constraint:OnDelete:CASCADE" json:"invited_user,omitempty"`
	Inviter     *User    `gorm:"foreignKey:InviterID;constraint:OnDelete:CASCADE" json:"inviter,omitempty"`
}

// IsResolved reports whether the invitation has been accepted or rejected.
// Resolved invitations accept no further transitions.
func (i *Invitation) IsResolved() bool {
	return i.Status != InvitationPending
}
