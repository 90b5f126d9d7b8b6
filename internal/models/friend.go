package models

import (
	"time"
)

type FriendRequest struct {
	ID          uint      `gorm:"primaryKey"`
	SenderID    uint      `gorm:"not null;index:idx_friend_request,unique,where:status <> 'rejected'"`
	Sender      User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	RecipientID uint      `gorm:"not null;index:idx_friend_request,unique,where:status <> 'rejected'"`
	Recipient   User      `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Status      string    `gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Friend request status constants
const (
	FriendRequestStatusPending  = "pending"
	FriendRequestStatusAccepted = "accepted"
	FriendRequestStatusRejected = "rejected"
)

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendEdge is one direction of an accepted friendship. Edges are always
// created in pairs, so edge(A,B) implies edge(B,A).
type FriendEdge struct {
	ID        uint      `gorm:"primaryKey"`
	OwnerID   uint      `gorm:"not null;index:idx_friend_edge,unique"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	FriendID  uint      `gorm:"not null;index:idx_friend_edge,unique"`
	Friend    User      `gorm:"foreignKey:FriendID;constraint:OnDelete:CASCADE"`
	RequestID uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (FriendEdge) TableName() string {
	return "friend_edges"
}
