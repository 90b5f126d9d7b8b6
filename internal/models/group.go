package models

import (
	"time"
)

type Group struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatorID   uint      `gorm:"not null;index"`
	Creator     User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupMembership struct {
	ID       uint      `gorm:"primaryKey"`
	GroupID  uint      `gorm:"not null;index:idx_group_member,unique"`
	Group    Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	UserID   uint      `gorm:"not null;index:idx_group_member,unique"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role     string    `gorm:"type:varchar(20);default:'member'"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// Membership role constants
const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"
)

func (GroupMembership) TableName() string {
	return "group_memberships"
}

type GroupInvitation struct {
	ID          uint      `gorm:"primaryKey"`
	GroupID     uint      `gorm:"not null;index:idx_group_invitation,unique,where:status = 'pending'"`
	Group       Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	SenderID    uint      `gorm:"not null;index"`
	Sender      User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	RecipientID uint      `gorm:"not null;index:idx_group_invitation,unique,where:status = 'pending'"`
	Recipient   User      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Status      string    `gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Invitation status constants
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
)

func (GroupInvitation) TableName() string {
	return "group_invitations"
}
