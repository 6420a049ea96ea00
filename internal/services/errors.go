package services

import "errors"

// Rule violations are user-facing and recoverable; handlers translate them
// to 4xx responses. Anything else bubbling out of the storage layer is
// treated as a server fault.
var (
	ErrHuntNotFound   = errors.New("hunt not found")
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrUserNotFound   = errors.New("no such user")

	ErrNotOrganizer = errors.New("not an organizer of this hunt")
	ErrPuzzleLocked = errors.New("puzzle is not viewable by your team (or the public)")

	ErrEmptyGuess     = errors.New("guess must contain at least one letter or digit")
	ErrAlreadySolved  = errors.New("you have already solved the puzzle")
	ErrLimitReached   = errors.New("you have no guesses remaining")
	ErrDuplicateGuess = errors.New("you have already guessed that answer")

	ErrAlreadyOnTeam   = errors.New("you are already in a team")
	ErrNotOnTeam       = errors.New("you are not in a team")
	ErrTeamNameTaken   = errors.New("a team with that name already exists in this hunt")
	ErrAlreadyMember   = errors.New("that user is already in the team")
	ErrAlreadyInvited  = errors.New("that user has already been invited")
	ErrOrganizerInvite = errors.New("that user is an organizer")
	ErrNoInvite        = errors.New("you don't have an invitation to that team")
	ErrTeamFull        = errors.New("the team is already at the member limit")

	ErrFloorDecrease = errors.New("progress floor can only be raised")
)
