package models

type Puzzle struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	HuntID uint   `gorm:"not null;index" json:"hunt_id"`
	Hunt   Hunt   `gorm:"foreignKey:HuntID;constraint:OnDelete:CASCADE" json:"-"`
	Name   string `gorm:"size:500;not null" json:"name"`
	// Content is the puzzle body, usually flavortext plus an external URL.
	Content string `gorm:"type:text" json:"content,omitempty"`
	Answer  string `gorm:"size:500;not null" json:"-"`
	Points  int    `gorm:"not null" json:"points"`
	// OrderNum controls display ordering on the hunt page; ties are broken
	// by puzzle name.
	OrderNum int `gorm:"not null;default:0" json:"order"`
	// ProgressPoints are earned by solving; ProgressThreshold is required
	// to unlock.
	ProgressPoints    int             `gorm:"not null;default:0" json:"progress_points"`
	ProgressThreshold int             `gorm:"not null;default:0" json:"progress_threshold"`
	GuessResponses    []GuessResponse `gorm:"foreignKey:PuzzleID;constraint:OnDelete:CASCADE" json:"-"`
}

// GuessResponse is a canned reply to a particular guess, such as a "Keep
// going!" for a near-miss or an acknowledgement of an intermediate
// cluephrase. A guess matching one of these does not count toward the guess
// limit.
type GuessResponse struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PuzzleID uint   `gorm:"not null;uniqueIndex:idx_puzzle_guess_response" json:"puzzle_id"`
	Puzzle   Puzzle `gorm:"foreignKey:PuzzleID;constraint:OnDelete:CASCADE" json:"-"`
	Guess    string `gorm:"size:500;not null;uniqueIndex:idx_puzzle_guess_response" json:"guess"`
	Response string `gorm:"type:text;not null" json:"response"`
}
