package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/ctf"
)

var (
	challengeColumns = []string{
		"id", "title", "description", "difficulty", "category",
		"points", "flag_digest", "created_at",
	}
	submissionColumns = []string{
		"id", "user_id", "challenge_id", "submitted_flag", "correct", "submitted_at",
	}
)

type challengeRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Difficulty  string    `db:"difficulty"`
	Category    string    `db:"category"`
	Points      int       `db:"points"`
	FlagDigest  string    `db:"flag_digest"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r challengeRow) toDomain() ctf.Challenge {
	return ctf.Challenge(r)
}

type submissionRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	ChallengeID   string    `db:"challenge_id"`
	SubmittedFlag string    `db:"submitted_flag"`
	Correct       bool      `db:"correct"`
	SubmittedAt   time.Time `db:"submitted_at"`
}

func (r submissionRow) toDomain() ctf.Submission {
	return ctf.Submission(r)
}

type leaderboardRow struct {
	UserID   string `db:"user_id"`
	FullName string `db:"full_name"`
	Score    int    `db:"score"`
}

type CTFRepository struct {
	exec core.DBExecutor
}

var _ ctf.Repository = (*CTFRepository)(nil) // interface compliance check

func NewCTFRepository(exec core.DBExecutor) *CTFRepository {
	return &CTFRepository{exec: exec}
}

func (repo *CTFRepository) CreateChallenge(ctx context.Context, ch ctf.Challenge) (ctf.Challenge, error) {
	ch.ID = uuid.New().String()

	query, args, err := psql.Insert("ctf_challenges").
		Columns(challengeColumns...).
		Values(ch.ID, ch.Title, ch.Description, ch.Difficulty, ch.Category, ch.Points, ch.FlagDigest, ch.CreatedAt).
		ToSql()
	if err != nil {
		return ctf.Challenge{}, errors.Wrap(err, "building challenge insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return ctf.Challenge{}, trapErr(err, "inserting challenge")
	}
	return ch, nil
}

func (repo *CTFRepository) QueryChallenges(ctx context.Context) ([]ctf.Challenge, error) {
	query, args, err := psql.Select(challengeColumns...).From("ctf_challenges").
		OrderBy("points ASC", "created_at ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building challenge query")
	}
	var rows []challengeRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying challenges")
	}
	challenges := make([]ctf.Challenge, 0, len(rows))
	for _, r := range rows {
		challenges = append(challenges, r.toDomain())
	}
	return challenges, nil
}

func (repo *CTFRepository) GetChallengeByID(ctx context.Context, id string) (ctf.Challenge, error) {
	query, args, err := psql.Select(challengeColumns...).From("ctf_challenges").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return ctf.Challenge{}, errors.Wrap(err, "building challenge query")
	}
	var row challengeRow
	if err = repo.exec.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ctf.Challenge{}, ctf.ErrChallengeNotFound
		}
		return ctf.Challenge{}, trapErr(err, "finding challenge by ID")
	}
	return row.toDomain(), nil
}

func (repo *CTFRepository) CreateSubmission(ctx context.Context, sub ctf.Submission) (ctf.Submission, error) {
	sub.ID = uuid.New().String()

	query, args, err := psql.Insert("ctf_submissions").
		Columns(submissionColumns...).
		Values(sub.ID, sub.UserID, sub.ChallengeID, sub.SubmittedFlag, sub.Correct, sub.SubmittedAt).
		ToSql()
	if err != nil {
		return ctf.Submission{}, errors.Wrap(err, "building submission insert")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		return ctf.Submission{}, trapErr(err, "inserting submission")
	}
	return sub, nil
}

func (repo *CTFRepository) QuerySolvedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	query, args, err := psql.Select("DISTINCT challenge_id").From("ctf_submissions").
		Where(sq.Eq{"user_id": userID, "correct": true}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building solved query")
	}
	var ids []string
	if err = repo.exec.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, trapErr(err, "querying solved challenge IDs")
	}
	return ids, nil
}

func (repo *CTFRepository) QuerySubmissions(ctx context.Context, userID string) ([]ctf.Submission, error) {
	query, args, err := psql.Select(submissionColumns...).From("ctf_submissions").
		Where(sq.Eq{"user_id": userID}).OrderBy("submitted_at DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building submission query")
	}
	var rows []submissionRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying submissions")
	}
	subs := make([]ctf.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toDomain())
	}
	return subs, nil
}

func (repo *CTFRepository) QueryLeaderboard(ctx context.Context) ([]ctf.LeaderboardEntry, error) {
	query, args, err := psql.Select("user_id", "full_name", "score").From("leaderboard").
		OrderBy("score DESC", "full_name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building leaderboard query")
	}
	var rows []leaderboardRow
	if err = repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, trapErr(err, "querying leaderboard")
	}
	entries := make([]ctf.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, ctf.LeaderboardEntry(r))
	}
	return entries, nil
}
