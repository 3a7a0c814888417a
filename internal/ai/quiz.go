// Quiz generation against the Gemini API.
//
// The generation contract is a fixed mixture over the requested count:
// 60% multiple-choice, 30% short-answer, and the remainder long-answer.
// Model output is parsed defensively in three stages: direct JSON decode,
// then extraction of the first brace-delimited object from the raw text,
// then a hardcoded demo question set. All items are normalized to one
// uniform shape regardless of which stage produced them.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Question types.
const (
	TypeMCQ = "MCQ"
	TypeSAQ = "SAQ"
	TypeLAQ = "LAQ"
)

// Question is the uniform quiz item shape served to clients and accepted
// back on submission. MCQ items carry exactly four options, a zero-based
// correct-option index, and an explanation; SAQ/LAQ items carry a model
// answer instead and are not auto-scored.
type Question struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options,omitempty"`
	Answer      int      `json:"answer"`
	ModelAnswer string   `json:"modelAnswer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// MixtureSplit returns the per-type question counts for a requested total:
// mcq = floor(0.6n) (min 1), saq = floor(0.3n) (min 1), laq absorbs the
// remainder (floored at zero for tiny totals; the normalized result is
// truncated to n either way).
func MixtureSplit(n int) (mcq, saq, laq int) {
	mcq = n * 6 / 10
	if mcq < 1 {
		mcq = 1
	}
	saq = n * 3 / 10
	if saq < 1 {
		saq = 1
	}
	laq = n - mcq - saq
	if laq < 0 {
		laq = 0
	}
	return mcq, saq, laq
}

const quizPromptTmpl = `Generate a quiz from the following educational text with:
- %d multiple-choice questions (MCQ)
- %d short answer questions (SAQ)
- %d long answer questions (LAQ)

Rules:
1. MCQs: 4 options, correct answer as index (0-3), explanation.
2. SAQs: 1-2 sentence model answer.
3. LAQs: 3-5 sentence model answer.
4. All questions must be based ONLY on the provided text.
5. Return ONLY a JSON object with keys: "mcqs", "saqs", "laqs".

Text:
%s

Output format (example):
{
  "mcqs": [
    {"id": "q1", "type": "MCQ", "question": "...", "options": ["A","B","C","D"], "answer": 0, "explanation": "..."}
  ],
  "saqs": [
    {"id": "q2", "type": "SAQ", "question": "...", "answer": "..."}
  ],
  "laqs": [
    {"id": "q3", "type": "LAQ", "question": "...", "answer": "..."}
  ]
}`

// raw wire shapes returned by the model.
type rawMCQ struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      *int     `json:"answer"`
	Explanation string   `json:"explanation"`
}

type rawWritten struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type rawQuiz struct {
	MCQs []rawMCQ     `json:"mcqs"`
	SAQs []rawWritten `json:"saqs"`
	LAQs []rawWritten `json:"laqs"`
}

// GenerateQuiz produces count normalized questions from the given source
// text. Generation and parse failures degrade to the demo question set;
// the caller never sees an error from this function's fallback path, only
// from an empty source text.
func GenerateQuiz(ctx context.Context, g Generator, text string, count int) ([]Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("quiz source text is empty")
	}
	if count < 1 {
		count = 1
	}

	mcq, saq, laq := MixtureSplit(count)
	prompt := fmt.Sprintf(quizPromptTmpl, mcq, saq, laq, text)

	out, err := g.GenerateText(ctx, prompt)
	if err != nil {
		return DemoQuiz(count), nil
	}

	parsed, ok := parseQuizJSON(out)
	if !ok {
		return DemoQuiz(count), nil
	}

	questions := normalizeQuiz(parsed)
	if len(questions) == 0 {
		return DemoQuiz(count), nil
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// parseQuizJSON attempts a direct decode of the model output, then falls
// back to scanning for the first top-level brace-delimited object.
func parseQuizJSON(raw string) (rawQuiz, bool) {
	var q rawQuiz
	cleaned := StripCodeFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &q); err == nil {
		return q, true
	}
	obj, ok := ExtractJSONObject(cleaned)
	if !ok {
		return rawQuiz{}, false
	}
	if err := json.Unmarshal([]byte(obj), &q); err != nil {
		return rawQuiz{}, false
	}
	return q, true
}

// normalizeQuiz flattens the typed buckets into the uniform Question shape,
// applying defaults for any field the model omitted.
func normalizeQuiz(q rawQuiz) []Question {
	out := make([]Question, 0, len(q.MCQs)+len(q.SAQs)+len(q.LAQs))

	for i, m := range q.MCQs {
		item := Question{
			ID:          m.ID,
			Type:        TypeMCQ,
			Question:    m.Question,
			Options:     m.Options,
			Explanation: m.Explanation,
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("mcq_%d", i+1)
		}
		if item.Question == "" {
			item.Question = "Untitled MCQ"
		}
		if len(item.Options) != 4 {
			item.Options = []string{"Option A", "Option B", "Option C", "Option D"}
		}
		if m.Answer != nil && *m.Answer >= 0 && *m.Answer < len(item.Options) {
			item.Answer = *m.Answer
		}
		if item.Explanation == "" {
			item.Explanation = "No explanation provided"
		}
		out = append(out, item)
	}

	for i, s := range q.SAQs {
		out = append(out, normalizeWritten(s, TypeSAQ, fmt.Sprintf("saq_%d", i+1)))
	}
	for i, l := range q.LAQs {
		out = append(out, normalizeWritten(l, TypeLAQ, fmt.Sprintf("laq_%d", i+1)))
	}
	return out
}

func normalizeWritten(w rawWritten, typ, fallbackID string) Question {
	item := Question{
		ID:          w.ID,
		Type:        typ,
		Question:    w.Question,
		ModelAnswer: w.Answer,
	}
	if item.ID == "" {
		item.ID = fallbackID
	}
	if item.Question == "" {
		item.Question = "Untitled " + typ
	}
	if item.ModelAnswer == "" {
		item.ModelAnswer = "Model answer not provided"
	}
	return item
}
