package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/virtuallab/portal/core/ctf"
)

type ctfRepository struct {
	db *ctfTables
}

var _ ctf.Repository = (*ctfRepository)(nil) // interface compliance check

func NewCTFRepository(db *DB) ctf.Repository {
	return &ctfRepository{db: db.ctf}
}

func (repo *ctfRepository) CreateChallenge(ctx context.Context, ch ctf.Challenge) (ctf.Challenge, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ch.ID = uuid.New().String()
	repo.db.challenges[ch.ID] = &ch
	return ch, nil
}

func (repo *ctfRepository) QueryChallenges(ctx context.Context) ([]ctf.Challenge, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	chs := make([]ctf.Challenge, 0, len(repo.db.challenges))
	for _, ch := range repo.db.challenges {
		chs = append(chs, *ch)
	}
	sort.Slice(chs, func(i, j int) bool { return chs[i].Points < chs[j].Points })
	return chs, nil
}

func (repo *ctfRepository) GetChallengeByID(ctx context.Context, id string) (ctf.Challenge, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ch, ok := repo.db.challenges[id]; ok {
		return *ch, nil
	}
	return ctf.Challenge{}, ctf.ErrChallengeNotFound
}

func (repo *ctfRepository) CreateSubmission(ctx context.Context, sub ctf.Submission) (ctf.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sub.ID = uuid.New().String()
	repo.db.submissions = append(repo.db.submissions, sub)
	return sub, nil
}

func (repo *ctfRepository) QuerySolvedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, sub := range repo.db.submissions {
		if sub.UserID == userID && sub.Correct && !seen[sub.ChallengeID] {
			seen[sub.ChallengeID] = true
			ids = append(ids, sub.ChallengeID)
		}
	}
	return ids, nil
}

func (repo *ctfRepository) QuerySubmissions(ctx context.Context, userID string) ([]ctf.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var subs []ctf.Submission
	for _, sub := range repo.db.submissions {
		if sub.UserID == userID {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}

func (repo *ctfRepository) QueryLeaderboard(ctx context.Context) ([]ctf.LeaderboardEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	// one credit per (user, challenge) pair, repeat solves do not add up
	solved := make(map[string]map[string]bool)
	scores := make(map[string]int)
	for _, sub := range repo.db.submissions {
		if !sub.Correct {
			continue
		}
		if solved[sub.UserID] == nil {
			solved[sub.UserID] = make(map[string]bool)
		}
		if solved[sub.UserID][sub.ChallengeID] {
			continue
		}
		solved[sub.UserID][sub.ChallengeID] = true
		if ch, ok := repo.db.challenges[sub.ChallengeID]; ok {
			scores[sub.UserID] += ch.Points
		}
	}

	entries := make([]ctf.LeaderboardEntry, 0, len(scores))
	for userID, score := range scores {
		entries = append(entries, ctf.LeaderboardEntry{UserID: userID, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	return entries, nil
}
