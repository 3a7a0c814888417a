package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildContext(t *testing.T) {
	p := 7
	got := BuildContext([]RetrievedChunk{
		{Page: &p, Text: "first chunk"},
		{Page: nil, Text: "second chunk"},
	})
	want := "Page 7: first chunk\n\nPage N/A: second chunk"
	if got != want {
		t.Errorf("BuildContext = %q, want %q", got, want)
	}
}

func TestBuildContextEmpty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("BuildContext(nil) = %q", got)
	}
}

func TestGenerateAnswer(t *testing.T) {
	g := &stubGenerator{out: "  The answer.  "}
	out, err := GenerateAnswer(context.Background(), g, "q", "ctx")
	if err != nil {
		t.Fatalf("GenerateAnswer: %v", err)
	}
	if out != "The answer." {
		t.Errorf("answer = %q", out)
	}
}

func TestGenerateAnswerBlankOutputFallsBack(t *testing.T) {
	g := &stubGenerator{out: "   "}
	out, err := GenerateAnswer(context.Background(), g, "q", "ctx")
	if err != nil {
		t.Fatalf("GenerateAnswer: %v", err)
	}
	if out != answerFallback {
		t.Errorf("answer = %q, want fallback", out)
	}
}

func TestGenerateAnswerPropagatesError(t *testing.T) {
	g := &stubGenerator{err: errors.New("model down")}
	if _, err := GenerateAnswer(context.Background(), g, "q", "ctx"); err == nil {
		t.Error("expected error")
	}
}

func TestGenerateAnswerPromptContainsContext(t *testing.T) {
	rec := &recordingGenerator{out: "ok"}
	if _, err := GenerateAnswer(context.Background(), rec, "the question", "Page 1: the context"); err != nil {
		t.Fatalf("GenerateAnswer: %v", err)
	}
	if !strings.Contains(rec.prompt, "Page 1: the context") || !strings.Contains(rec.prompt, "the question") {
		t.Errorf("prompt = %q", rec.prompt)
	}
}
