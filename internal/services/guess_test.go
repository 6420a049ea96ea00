package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PuzzleTechHub/myus/internal/models"

	"gorm.io/gorm"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Dallas!", "DALLAS"},
		{"dallas", "DALLAS"},
		{"D A L L A S", "DALLAS"},
		{"foo-bar_123", "FOOBAR123"},
		{"  answer  ", "ANSWER"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAnswer(tt.in); got != tt.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSubmitGuessCorrect(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 0)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	svc := NewGuessService(db)

	result, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "D a l l a s!")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if result.Outcome != OutcomeCorrect {
		t.Errorf("outcome = %q, want %q", result.Outcome, OutcomeCorrect)
	}
	if !result.Guess.Correct || !result.Guess.CountsAsGuess {
		t.Errorf("guess = %+v, want correct and counting", result.Guess)
	}
	if got := countGuesses(t, db, team.ID, puzzle.ID); got != 1 {
		t.Errorf("guess rows = %d, want 1", got)
	}

	// Solving again is rejected and writes nothing.
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "dallas again"); !errors.Is(err, ErrAlreadySolved) {
		t.Errorf("second submit err = %v, want ErrAlreadySolved", err)
	}
	if got := countGuesses(t, db, team.ID, puzzle.ID); got != 1 {
		t.Errorf("guess rows after rejection = %d, want 1", got)
	}
}

func TestSubmitGuessEmptyText(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 0)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	svc := NewGuessService(db)

	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "!?! --"); !errors.Is(err, ErrEmptyGuess) {
		t.Errorf("err = %v, want ErrEmptyGuess", err)
	}
	if got := countGuesses(t, db, team.ID, puzzle.ID); got != 0 {
		t.Errorf("guess rows = %d, want 0", got)
	}
}

func TestSubmitGuessDuplicate(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 0)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	svc := NewGuessService(db)

	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "Houston"); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	// Same text after normalization, different raw form.
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "h-o-u-s-t-o-n"); !errors.Is(err, ErrDuplicateGuess) {
		t.Errorf("err = %v, want ErrDuplicateGuess", err)
	}
	if got := countGuesses(t, db, team.ID, puzzle.ID); got != 1 {
		t.Errorf("guess rows = %d, want 1", got)
	}
}

func TestSubmitGuessLimit(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 3)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	svc := NewGuessService(db)

	for _, wrong := range []string{"austin", "houston", "elpaso"} {
		if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, wrong); err != nil {
			t.Fatalf("guess %q: %v", wrong, err)
		}
	}

	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "laredo"); !errors.Is(err, ErrLimitReached) {
		t.Errorf("4th wrong guess err = %v, want ErrLimitReached", err)
	}
}

func TestGuessResponseBypassesLimit(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 3)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	rule := models.GuessResponse{PuzzleID: puzzle.ID, Guess: "keep going", Response: "You're on the right track!"}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create response rule: %v", err)
	}
	svc := NewGuessService(db)

	for _, wrong := range []string{"austin", "houston", "elpaso"} {
		if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, wrong); err != nil {
			t.Fatalf("guess %q: %v", wrong, err)
		}
	}

	// The budget is spent, but a response-matching guess is still accepted
	// and doesn't count.
	result, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "Keep Going!")
	if err != nil {
		t.Fatalf("response-matching guess: %v", err)
	}
	if result.Outcome != OutcomeIncorrectWithResponse {
		t.Errorf("outcome = %q, want %q", result.Outcome, OutcomeIncorrectWithResponse)
	}
	if result.Response != "You're on the right track!" {
		t.Errorf("response = %q", result.Response)
	}
	if result.Guess.CountsAsGuess {
		t.Error("response-matching guess should not count")
	}

	// The non-counting flag must survive the round trip to storage, or the
	// guess state would charge the budget for it later.
	var stored models.Guess
	if err := db.First(&stored, result.Guess.ID).Error; err != nil {
		t.Fatalf("reload guess: %v", err)
	}
	if stored.CountsAsGuess {
		t.Error("persisted counts_as_guess = true, want false")
	}

	state, err := svc.GetTeamGuessState(team.ID, puzzle.ID)
	if err != nil {
		t.Fatalf("GetTeamGuessState: %v", err)
	}
	if state.GuessesRemaining != 0 {
		t.Errorf("remaining = %d, want 0 (soft guess must not burn budget)", state.GuessesRemaining)
	}

	// Counting guesses stay blocked, the correct answer included: only
	// non-counting guesses bypass the limit.
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "laredo"); !errors.Is(err, ErrLimitReached) {
		t.Errorf("counting guess err = %v, want ErrLimitReached", err)
	}
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "dallas"); !errors.Is(err, ErrLimitReached) {
		t.Errorf("correct guess at limit err = %v, want ErrLimitReached", err)
	}
}

func TestExtraGuessGrantRaisesLimit(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 3)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	other := createPuzzle(t, db, hunt, "P2", "AUSTIN", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	grant := models.ExtraGuessGrant{TeamID: team.ID, PuzzleID: puzzle.ID, ExtraGuesses: 2}
	if err := db.Create(&grant).Error; err != nil {
		t.Fatalf("create grant: %v", err)
	}
	svc := NewGuessService(db)

	for _, wrong := range []string{"g1", "g2", "g3", "g4", "g5"} {
		if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, wrong); err != nil {
			t.Fatalf("guess %q: %v", wrong, err)
		}
	}
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "g6"); !errors.Is(err, ErrLimitReached) {
		t.Errorf("6th guess err = %v, want ErrLimitReached", err)
	}

	// The grant is scoped to one (team, puzzle); the other puzzle keeps
	// the base limit.
	for _, wrong := range []string{"g1", "g2", "g3"} {
		if _, err := svc.SubmitGuess(team.ID, other.ID, user.ID, wrong); err != nil {
			t.Fatalf("other puzzle guess %q: %v", wrong, err)
		}
	}
	if _, err := svc.SubmitGuess(team.ID, other.ID, user.ID, "g4"); !errors.Is(err, ErrLimitReached) {
		t.Errorf("other puzzle 4th guess err = %v, want ErrLimitReached", err)
	}
}

func TestCorrectAnswerOverridesResponseRule(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 0)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	// A trap rule with the same text as the real answer must not demote
	// the guess to a soft response.
	rule := models.GuessResponse{PuzzleID: puzzle.ID, Guess: "Dallas", Response: "So close!"}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create response rule: %v", err)
	}
	svc := NewGuessService(db)

	result, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "dallas")
	if err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if result.Outcome != OutcomeCorrect {
		t.Errorf("outcome = %q, want %q", result.Outcome, OutcomeCorrect)
	}
	if !result.Guess.CountsAsGuess {
		t.Error("correct guess must count")
	}
	if result.Response != "" {
		t.Errorf("response = %q, want empty", result.Response)
	}
}

func TestUnlimitedGuesses(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 0)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	svc := NewGuessService(db)

	for i := 0; i < 30; i++ {
		if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, fmt.Sprintf("wrong%d", i)); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
}

func TestGetTeamGuessState(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 5)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)
	rule := models.GuessResponse{PuzzleID: puzzle.ID, Guess: "warmer", Response: "Warmer!"}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("create response rule: %v", err)
	}
	svc := NewGuessService(db)

	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "austin"); err != nil {
		t.Fatalf("guess: %v", err)
	}
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "warmer"); err != nil {
		t.Fatalf("guess: %v", err)
	}

	state, err := svc.GetTeamGuessState(team.ID, puzzle.ID)
	if err != nil {
		t.Fatalf("GetTeamGuessState: %v", err)
	}
	if state.Solved {
		t.Error("not solved yet")
	}
	if !state.GuessesLimited {
		t.Error("guesses should be limited")
	}
	// Only the counting guess burned budget.
	if state.GuessesRemaining != 4 {
		t.Errorf("remaining = %d, want 4", state.GuessesRemaining)
	}
	if len(state.Guesses) != 2 {
		t.Errorf("guesses = %d, want 2", len(state.Guesses))
	}

	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "dallas"); err != nil {
		t.Fatalf("solve: %v", err)
	}
	state, err = svc.GetTeamGuessState(team.ID, puzzle.ID)
	if err != nil {
		t.Fatalf("GetTeamGuessState: %v", err)
	}
	if !state.Solved {
		t.Error("should be solved")
	}
}

// Guess.user is audit only: any member's guess lands on the team ledger and
// burns the shared budget.
func TestGuessUserIsAuditOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	hunt := createHunt(t, db, nil, 2)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", alice, bob)
	svc := NewGuessService(db)

	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, alice.ID, "austin"); err != nil {
		t.Fatalf("alice guess: %v", err)
	}
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, bob.ID, "houston"); err != nil {
		t.Fatalf("bob guess: %v", err)
	}
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, alice.ID, "elpaso"); !errors.Is(err, ErrLimitReached) {
		t.Errorf("err = %v, want ErrLimitReached (budget shared across members)", err)
	}

	var guesses []models.Guess
	if err := db.Where("team_id = ?", team.ID).Order("id ASC").Find(&guesses).Error; err != nil {
		t.Fatalf("load guesses: %v", err)
	}
	if guesses[0].UserID == nil || *guesses[0].UserID != alice.ID {
		t.Error("first guess should record alice")
	}
	if guesses[1].UserID == nil || *guesses[1].UserID != bob.ID {
		t.Error("second guess should record bob")
	}
}

// The partial unique index on correct guesses is the backstop SubmitGuess
// leans on when two winning submissions race past the solved check: the
// loser's insert comes back as a duplicated key, which the service reports
// as already solved.
func TestCorrectGuessUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "solver")
	hunt := createHunt(t, db, nil, 0)
	puzzle := createPuzzle(t, db, hunt, "P1", "DALLAS", 10, 1, 0)
	team := createTeam(t, db, hunt, "Team A", user)

	createSolve(t, db, team, puzzle, time.Now())

	// A second correct row, even with different text, trips the index.
	second := models.Guess{TeamID: team.ID, PuzzleID: puzzle.ID, Guess: "DALLASTX", Correct: true, CountsAsGuess: true}
	if err := db.Create(&second).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second correct insert err = %v, want gorm.ErrDuplicatedKey", err)
	}

	// Incorrect rows are outside the partial index.
	wrong := models.Guess{TeamID: team.ID, PuzzleID: puzzle.ID, Guess: "WRONG", CountsAsGuess: true}
	if err := db.Create(&wrong).Error; err != nil {
		t.Fatalf("incorrect insert: %v", err)
	}

	// Repeating text for the same team and puzzle trips the dedup index.
	repeat := models.Guess{TeamID: team.ID, PuzzleID: puzzle.ID, Guess: "WRONG", CountsAsGuess: true}
	if err := db.Create(&repeat).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("repeated text insert err = %v, want gorm.ErrDuplicatedKey", err)
	}

	// Through the service the settled race surfaces as the domain outcome.
	svc := NewGuessService(db)
	if _, err := svc.SubmitGuess(team.ID, puzzle.ID, user.ID, "dallas tx"); !errors.Is(err, ErrAlreadySolved) {
		t.Errorf("submit after solve err = %v, want ErrAlreadySolved", err)
	}
}
