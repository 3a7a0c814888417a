package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Video is a recommended study video. Duration and view counts are
// synthesized until a real video provider is integrated.
type Video struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Views    string `json:"views"`
}

var fallbackVideoQueries = []string{
	"Physics class 11 full chapter",
	"NCERT Physics explained",
	"Conceptual physics for beginners",
}

const videoPromptTmpl = `You are a helpful tutor. Based on the following PDF context, suggest 3 educational YouTube video topics that would help a student understand the material better.

PDF Context:
%s

Return ONLY a JSON array of strings (search queries), like:
["Newton's laws of motion explained", "Kinematics class 11 physics", "Work energy power full chapter"]

Do not include any other text.
`

// RecommendVideos asks the model for search queries describing the given
// document context and maps them to Video entries. Generation or parse
// failures degrade to a canned query list rather than an error.
func RecommendVideos(ctx context.Context, g Generator, docContext string) []Video {
	queries := fallbackVideoQueries

	raw, err := g.GenerateText(ctx, fmt.Sprintf(videoPromptTmpl, docContext))
	if err == nil {
		if parsed := parseVideoQueries(raw); len(parsed) > 0 {
			queries = parsed
		}
	}

	if len(queries) > 3 {
		queries = queries[:3]
	}
	videos := make([]Video, 0, len(queries))
	for i, q := range queries {
		videos = append(videos, Video{
			Title:    q,
			Duration: fmt.Sprintf("%d:%02d", 10+i*3, (30+i*15)%60),
			Views:    fmt.Sprintf("%.1fM", 0.8+float64(i)*0.5),
		})
	}
	return videos
}

func parseVideoQueries(raw string) []string {
	text := strings.TrimSpace(StripCodeFences(raw))

	var queries []string
	if err := json.Unmarshal([]byte(text), &queries); err == nil {
		return queries
	}
	if arr, ok := ExtractJSONArray(text); ok {
		if err := json.Unmarshal([]byte(arr), &queries); err == nil {
			return queries
		}
	}
	return nil
}
