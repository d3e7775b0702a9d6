package ctf

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/virtuallab/portal/core"
)

// Difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Challenge is created by an administrator out of band and is immutable
// during normal operation. FlagDigest is the hex SHA-256 of the trimmed
// flag string; it never leaves the backend.
type Challenge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	Category    string    `json:"category"`
	Points      int       `json:"points"`
	FlagDigest  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// AnnotatedChallenge is a Challenge enriched with the caller's solved state.
type AnnotatedChallenge struct {
	Challenge
	Solved bool `json:"solved"`
}

// Submission records one submit attempt. Rows are never updated or deleted;
// repeat attempts for an already-solved challenge still append one.
type Submission struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ChallengeID   string    `json:"challenge_id"`
	SubmittedFlag string    `json:"submitted_flag"`
	Correct       bool      `json:"correct"`
	SubmittedAt   time.Time `json:"submitted_at"` // UTC
}

// LeaderboardEntry is a derived (user, score) projection maintained by a
// database view; the application only ever reads it.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Score    int    `json:"score"`
}

// NewChallenge contains information needed to create a new Challenge.
// The plaintext flag is digested immediately and never stored.
type NewChallenge struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Category    string `json:"category" validate:"required"`
	Points      int    `json:"points" validate:"required,gt=0"`
	Flag        string `json:"flag" validate:"required"`
}

func (nc *NewChallenge) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Difficulty = core.CleanString(nc.Difficulty, true /* lower */)
	nc.Category = core.CleanString(nc.Category)
	if core.CleanString(nc.Flag) == "" {
		nc.Flag = ""
	}
	return core.Validate.Struct(nc)
}

// FlagDigest computes the hex SHA-256 digest of the trimmed UTF-8 bytes of
// flag. Trimming strips leading/trailing whitespace only; the comparison
// stays case-sensitive and no other normalization is applied.
func FlagDigest(flag string) string {
	sum := sha256.Sum256([]byte(core.CleanString(flag)))
	return hex.EncodeToString(sum[:])
}
