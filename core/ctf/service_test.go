package ctf_test

import (
	"context"
	"testing"

	"github.com/virtuallab/portal/core"
	"github.com/virtuallab/portal/core/ctf"
	dummydb "github.com/virtuallab/portal/storage/database/dummy"
)

func newTestService(t *testing.T) (*ctf.Service, ctf.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	repo := dummydb.NewCTFRepository(db)
	return ctf.NewService(repo, nil), repo
}

func createChallenge(t *testing.T, svc *ctf.Service, title, flag string, points int) ctf.Challenge {
	t.Helper()
	ch, err := svc.CreateChallenge(context.Background(), ctf.NewChallenge{
		Title:       title,
		Description: "desc",
		Difficulty:  ctf.DifficultyEasy,
		Category:    "web",
		Points:      points,
		Flag:        flag,
	})
	if err != nil {
		t.Fatalf("CreateChallenge(): %v", err)
	}
	return ch
}

func TestService_SubmitFlag(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	ch := createChallenge(t, svc, "Crypto 101", "FLAG{s3cr3t}", 100)

	tests := []struct {
		name        string
		flag        string
		wantCorrect bool
	}{
		{name: "correct flag", flag: "FLAG{s3cr3t}", wantCorrect: true},
		{name: "surrounding whitespace is trimmed", flag: "  FLAG{s3cr3t}\n", wantCorrect: true},
		{name: "case matters", flag: "flag{s3cr3t}", wantCorrect: false},
		{name: "inner whitespace matters", flag: "FLAG{ s3cr3t }", wantCorrect: false},
		{name: "wrong flag", flag: "FLAG{nope}", wantCorrect: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, err := svc.SubmitFlag(ctx, "usr1", ch.ID, tt.flag)
			if err != nil {
				t.Fatalf("SubmitFlag() error = %v", err)
			}
			if correct != tt.wantCorrect {
				t.Errorf("SubmitFlag() = %v, want %v", correct, tt.wantCorrect)
			}
		})
	}

	// every attempt above must have left a submission row, with the raw flag
	subs, err := repo.QuerySubmissions(ctx, "usr1")
	if err != nil {
		t.Fatalf("QuerySubmissions(): %v", err)
	}
	if len(subs) != len(tests) {
		t.Errorf("submissions = %d, want %d", len(subs), len(tests))
	}
	for _, sub := range subs {
		if sub.SubmittedFlag == "" {
			t.Error("submission is missing the raw flag")
		}
	}
}

func TestService_SubmitFlag_emptyFlag(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	ch := createChallenge(t, svc, "Web 101", "FLAG{x}", 50)

	for _, flag := range []string{"", "   ", "\t\n"} {
		if _, err := svc.SubmitFlag(ctx, "usr1", ch.ID, flag); !core.IsValidationError(err) {
			t.Errorf("SubmitFlag(%q) error = %v, want validation error", flag, err)
		}
	}

	// rejected before any store interaction
	subs, err := repo.QuerySubmissions(ctx, "usr1")
	if err != nil {
		t.Fatalf("QuerySubmissions(): %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("submissions = %d, want 0", len(subs))
	}
}

func TestService_SubmitFlag_unknownChallenge(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SubmitFlag(ctx, "usr1", "no-such-id", "FLAG{x}"); err != ctf.ErrChallengeNotFound {
		t.Errorf("SubmitFlag() error = %v, want %v", err, ctf.ErrChallengeNotFound)
	}

	subs, err := repo.QuerySubmissions(ctx, "usr1")
	if err != nil {
		t.Fatalf("QuerySubmissions(): %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("submissions = %d, want 0", len(subs))
	}
}

func TestService_ListChallenges(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	hard := createChallenge(t, svc, "Hard", "FLAG{h}", 300)
	easy := createChallenge(t, svc, "Easy", "FLAG{e}", 50)

	// a failed then a correct attempt; solved must win out
	if _, err := svc.SubmitFlag(ctx, "usr1", easy.ID, "FLAG{wrong}"); err != nil {
		t.Fatalf("SubmitFlag(): %v", err)
	}
	if _, err := svc.SubmitFlag(ctx, "usr1", easy.ID, "FLAG{e}"); err != nil {
		t.Fatalf("SubmitFlag(): %v", err)
	}

	chs, err := svc.ListChallenges(ctx, "usr1")
	if err != nil {
		t.Fatalf("ListChallenges(): %v", err)
	}
	if len(chs) != 2 {
		t.Fatalf("challenges = %d, want 2", len(chs))
	}
	// points ascending
	if chs[0].ID != easy.ID || chs[1].ID != hard.ID {
		t.Errorf("challenges out of order: %q, %q", chs[0].Title, chs[1].Title)
	}
	if !chs[0].Solved {
		t.Error("easy challenge should be solved")
	}
	if chs[1].Solved {
		t.Error("hard challenge should not be solved")
	}
}

func TestService_Leaderboard_noDoubleCredit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	ch := createChallenge(t, svc, "Easy", "FLAG{e}", 50)

	// solving the same challenge twice only counts once
	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitFlag(ctx, "usr1", ch.ID, "FLAG{e}"); err != nil {
			t.Fatalf("SubmitFlag(): %v", err)
		}
	}

	entries, err := svc.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("Leaderboard(): %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Score != 50 {
		t.Errorf("score = %d, want 50", entries[0].Score)
	}
}

func TestFlagDigest(t *testing.T) {
	if ctf.FlagDigest("FLAG{x}") != ctf.FlagDigest("  FLAG{x}  ") {
		t.Error("digest should ignore surrounding whitespace")
	}
	if ctf.FlagDigest("FLAG{x}") == ctf.FlagDigest("flag{x}") {
		t.Error("digest should be case sensitive")
	}
	if got := len(ctf.FlagDigest("FLAG{x}")); got != 64 {
		t.Errorf("digest length = %d, want 64", got)
	}
}
