// Package services – DashboardService
//
// Aggregates a learner's quiz and chat activity into the dashboard
// summary: average score, completion counts, the last five scores in
// chronological order, a letter grade, and canned strengths/weaknesses
// keyed on the passing threshold.
package services

import (
	"context"
	"math"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/beyondchart/go-study-backend/internal/repo"
)

// Summary is the dashboard payload.
type Summary struct {
	OverallScore     int      `json:"overallScore"`
	QuizzesCompleted int      `json:"quizzesCompleted"`
	TotalChats       int64    `json:"totalChats"`
	RecentScores     []int    `json:"recentScores"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Grade            string   `json:"grade"`
}

// DashboardService computes learner statistics.
type DashboardService struct {
	DB *gorm.DB
}

// Summarize builds the dashboard summary for one user.
func (s *DashboardService) Summarize(ctx context.Context, userID string) (*Summary, error) {
	tr := otel.Tracer("services/DashboardService")
	ctx, span := tr.Start(ctx, "Summarize")
	defer span.End()

	scores, err := repo.ListQuizScores(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	totalChats, err := repo.CountChats(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	avg := 0
	if len(scores) > 0 {
		sum := 0
		for _, sc := range scores {
			sum += sc
		}
		avg = int(math.Round(float64(sum) / float64(len(scores))))
	}

	recent := scores
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	strengths := []string{"Effort", "Dedication"}
	weaknesses := []string{"Practice More", "Review Basics"}
	if avg >= 80 {
		strengths = []string{"Problem Solving", "Conceptual Understanding"}
		weaknesses = []string{"Advanced Topics"}
	}

	return &Summary{
		OverallScore:     avg,
		QuizzesCompleted: len(scores),
		TotalChats:       totalChats,
		RecentScores:     recent,
		Strengths:        strengths,
		Weaknesses:       weaknesses,
		Grade:            gradeFor(avg),
	}, nil
}

func gradeFor(avg int) string {
	switch {
	case avg >= 90:
		return "A+"
	case avg >= 80:
		return "A"
	case avg >= 70:
		return "B"
	case avg >= 60:
		return "C"
	default:
		return "D"
	}
}
