package models

import "time"

type Team struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	HuntID    uint         `gorm:"not null;uniqueIndex:idx_team_name_per_hunt" json:"hunt_id"`
	Hunt      Hunt         `gorm:"foreignKey:HuntID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string       `gorm:"size:500;not null;uniqueIndex:idx_team_name_per_hunt" json:"name"`
	Members   []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Invites   []TeamInvite `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time    `json:"created_at"`
}

// TeamMember carries the hunt ID alongside the team ID so the database can
// enforce one team per user per hunt.
type TeamMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TeamID   uint      `gorm:"not null;index" json:"team_id"`
	HuntID   uint      `gorm:"not null;uniqueIndex:idx_one_team_per_hunt" json:"hunt_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_one_team_per_hunt" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

type TeamInvite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_invite" json:"team_id"`
	Team      Team      `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_team_invite" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
