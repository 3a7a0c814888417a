package ai

import (
	"context"
	"errors"
	"testing"
)

func TestRecommendVideosParsesQueries(t *testing.T) {
	g := &stubGenerator{out: `["Newton's laws explained", "Kinematics basics", "Work and energy", "Fourth extra"]`}
	videos := RecommendVideos(context.Background(), g, "PDF Title: Physics\nPages: 20")
	if len(videos) != 3 {
		t.Fatalf("videos = %d, want 3", len(videos))
	}
	if videos[0].Title != "Newton's laws explained" {
		t.Errorf("title = %q", videos[0].Title)
	}
	for _, v := range videos {
		if v.Duration == "" || v.Views == "" {
			t.Errorf("missing synthesized fields: %+v", v)
		}
	}
}

func TestRecommendVideosFencedAndEmbedded(t *testing.T) {
	g := &stubGenerator{out: "```json\nHere you go: [\"a topic\", \"b topic\"]\n```"}
	videos := RecommendVideos(context.Background(), g, "ctx")
	if len(videos) != 2 || videos[0].Title != "a topic" {
		t.Errorf("videos = %+v", videos)
	}
}

func TestRecommendVideosFallsBackOnError(t *testing.T) {
	g := &stubGenerator{err: errors.New("model down")}
	videos := RecommendVideos(context.Background(), g, "ctx")
	if len(videos) != 3 {
		t.Fatalf("videos = %d, want 3 canned", len(videos))
	}
	if videos[0].Title != fallbackVideoQueries[0] {
		t.Errorf("title = %q", videos[0].Title)
	}
}

func TestRecommendVideosFallsBackOnGarbage(t *testing.T) {
	g := &stubGenerator{out: "no list in sight"}
	videos := RecommendVideos(context.Background(), g, "ctx")
	if len(videos) != 3 || videos[0].Title != fallbackVideoQueries[0] {
		t.Errorf("videos = %+v", videos)
	}
}
