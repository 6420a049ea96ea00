package models

import "time"

// DefaultGuessLimit is the per-puzzle guess budget a new hunt starts with.
const DefaultGuessLimit = 20

type Hunt struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:500;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	// Nil start time means the hunt never begins; nil end time means it
	// stays open indefinitely.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	// ProgressFloor is a floor on every team's progress points. Raised by
	// organizers mid-hunt to gradually unlock puzzles for everybody; it is
	// never lowered.
	ProgressFloor int `gorm:"not null;default:0" json:"progress_floor"`
	// MemberLimit caps team size; 0 means unlimited.
	MemberLimit int `gorm:"not null;default:0" json:"member_limit"`
	// GuessLimit is the base number of counting guesses per puzzle; 0 means
	// unlimited. No column default: a zero must round-trip as zero, and
	// CreateHunt applies DefaultGuessLimit when the organizer leaves it unset.
	GuessLimit int       `gorm:"not null" json:"guess_limit"`
	Puzzles    []Puzzle  `gorm:"foreignKey:HuntID;constraint:OnDelete:CASCADE" json:"puzzles,omitempty"`
	Teams      []Team    `gorm:"foreignKey:HuntID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type HuntOrganizer struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	HuntID uint `gorm:"not null;uniqueIndex:idx_hunt_organizer" json:"hunt_id"`
	Hunt   Hunt `gorm:"foreignKey:HuntID;constraint:OnDelete:CASCADE" json:"-"`
	UserID uint `gorm:"not null;uniqueIndex:idx_hunt_organizer" json:"user_id"`
}
