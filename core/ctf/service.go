package ctf

import (
	"context"
	"crypto/subtle"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/realtime"
)

var (
	// errors
	ErrChallengeNotFound = errors.New("challenge not found")
)

type (
	Repository interface {
		CreateChallenge(ctx context.Context, ch Challenge) (Challenge, error)
		// QueryChallenges returns all challenges ordered ascending by point value.
		QueryChallenges(ctx context.Context) ([]Challenge, error)
		GetChallengeByID(ctx context.Context, id string) (Challenge, error)
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		// QuerySolvedChallengeIDs returns the ids of challenges for which the
		// user has at least one correct submission.
		QuerySolvedChallengeIDs(ctx context.Context, userID string) ([]string, error)
		QuerySubmissions(ctx context.Context, userID string) ([]Submission, error)
		// QueryLeaderboard reads the database-side leaderboard projection,
		// ordered descending by score.
		QueryLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	}

	Service struct {
		repo    Repository
		changes *realtime.Hub
	}
)

func NewService(repo Repository, changes *realtime.Hub) *Service {
	return &Service{repo: repo, changes: changes}
}

// SubmitFlag decides correctness of a submitted flag and durably records the
// attempt. The submission row is written whether or not the flag was correct,
// and on repeat attempts for an already-solved challenge. A digest mismatch is
// the normal "incorrect" result, not an error.
func (svc *Service) SubmitFlag(ctx context.Context, userID, challengeID, rawFlag string) (bool, error) {
	if core.CleanString(rawFlag) == "" {
		return false, core.NewValidationError(nil, core.FieldError{Field: "flag", Error: "this field is required"})
	}

	ctx, cancel := core.StoreContext(ctx)
	defer cancel()

	ch, err := svc.repo.GetChallengeByID(ctx, challengeID)
	if err != nil {
		return false, err
	}

	digest := FlagDigest(rawFlag)
	correct := subtle.ConstantTimeCompare([]byte(digest), []byte(ch.FlagDigest)) == 1

	sub := Submission{
		UserID:        userID,
		ChallengeID:   ch.ID,
		SubmittedFlag: rawFlag, // raw, non-normalized
		Correct:       correct,
		SubmittedAt:   time.Now().UTC(),
	}
	if _, err := svc.repo.CreateSubmission(ctx, sub); err != nil {
		return false, errors.Wrap(err, "recording submission")
	}

	flagSubmissions.WithLabelValues(strconv.FormatBool(correct)).Inc()
	svc.changes.Publish(realtime.CollectionSubmissions)
	return correct, nil
}

// ListChallenges returns all challenges, ascending by point value, annotated
// with whether the user has at least one prior correct submission. An empty
// challenge set is a valid, non-error result.
func (svc *Service) ListChallenges(ctx context.Context, userID string) ([]AnnotatedChallenge, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()

	challenges, err := svc.repo.QueryChallenges(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying challenges")
	}
	solvedIDs, err := svc.repo.QuerySolvedChallengeIDs(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying solved challenges")
	}

	solved := make(map[string]bool, len(solvedIDs))
	for _, id := range solvedIDs {
		solved[id] = true
	}

	annotated := make([]AnnotatedChallenge, 0, len(challenges))
	for _, ch := range challenges {
		annotated = append(annotated, AnnotatedChallenge{Challenge: ch, Solved: solved[ch.ID]})
	}
	return annotated, nil
}

func (svc *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.QueryLeaderboard(ctx)
}

func (svc *Service) QuerySubmissions(ctx context.Context, userID string) ([]Submission, error) {
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.QuerySubmissions(ctx, userID)
}

func (svc *Service) CreateChallenge(ctx context.Context, nc NewChallenge) (Challenge, error) {
	ch := Challenge{
		Title:       nc.Title,
		Description: nc.Description,
		Difficulty:  nc.Difficulty,
		Category:    nc.Category,
		Points:      nc.Points,
		FlagDigest:  FlagDigest(nc.Flag),
		CreatedAt:   time.Now().UTC(),
	}
	ctx, cancel := core.StoreContext(ctx)
	defer cancel()
	return svc.repo.CreateChallenge(ctx, ch)
}
