package repo

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestQuizAttempts(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	pdfID := "p1"
	a, err := CreateQuizAttempt(ctx, db, "u1", &pdfID, datatypes.JSONMap{"q0": "a", "q1": "c"}, 50)
	if err != nil {
		t.Fatalf("CreateQuizAttempt: %v", err)
	}
	if a.ID == "" || a.Score != 50 {
		t.Fatalf("attempt row: %+v", a)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := CreateQuizAttempt(ctx, db, "u1", nil, datatypes.JSONMap{"q0": "b"}, 100); err != nil {
		t.Fatalf("CreateQuizAttempt: %v", err)
	}
	if _, err := CreateQuizAttempt(ctx, db, "u2", nil, nil, 0); err != nil {
		t.Fatalf("CreateQuizAttempt: %v", err)
	}

	attempts, err := ListQuizAttempts(ctx, db, "u1", 0)
	if err != nil {
		t.Fatalf("ListQuizAttempts: %v", err)
	}
	if len(attempts) != 2 || attempts[0].Score != 100 || attempts[1].Score != 50 {
		t.Fatalf("newest-first order: %+v", attempts)
	}
	if got := attempts[1].Answers["q1"]; got != "c" {
		t.Fatalf("answers round-trip: %v", attempts[1].Answers)
	}

	capped, err := ListQuizAttempts(ctx, db, "u1", 1)
	if err != nil || len(capped) != 1 || capped[0].Score != 100 {
		t.Fatalf("capped listing: %+v, %v", capped, err)
	}

	scores, err := ListQuizScores(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListQuizScores: %v", err)
	}
	if len(scores) != 2 || scores[0] != 50 || scores[1] != 100 {
		t.Fatalf("chronological scores = %v", scores)
	}
}
