package ai

import (
	"context"
	"fmt"
	"strings"
)

const answerFallback = "I don't have enough information to answer that."

// answerPromptTmpl frames the retrieved context for the tutor persona. The
// context string is already in "Page N: text" form per chunk.
const answerPromptTmpl = `You are a helpful AI teacher assistant.
Answer the student's question clearly using the following context.

Context:
%s

Question: %s
If the context lacks enough information, say politely.`

// GenerateAnswer asks the model to answer a student's question grounded in
// the retrieved context. The error path is not degraded here; the chat flow
// treats a generation failure as a server error.
func GenerateAnswer(ctx context.Context, g Generator, question, contextText string) (string, error) {
	prompt := fmt.Sprintf(answerPromptTmpl, contextText, question)
	out, err := g.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		out = answerFallback
	}
	return out, nil
}

// BuildContext joins retrieved chunks into the prompt context, one line per
// chunk in the form "Page {page}: {text}" ("N/A" when the page is unknown).
func BuildContext(chunks []RetrievedChunk) string {
	lines := make([]string, 0, len(chunks))
	for _, c := range chunks {
		page := "N/A"
		if c.Page != nil {
			page = fmt.Sprintf("%d", *c.Page)
		}
		lines = append(lines, fmt.Sprintf("Page %s: %s", page, c.Text))
	}
	return strings.Join(lines, "\n\n")
}

// RetrievedChunk is the slice of chunk data the prompt builder needs. It
// decouples this package from the embedder client types.
type RetrievedChunk struct {
	Page *int
	Text string
}
