package ai

import "testing"

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\nplain\n```":         "plain",
		"no fences":               "no fences",
	}
	for in, want := range cases {
		if got := StripCodeFences(in); got != want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractJSONObject(t *testing.T) {
	got, ok := ExtractJSONObject(`prefix {"a": {"b": 1}} suffix`)
	if !ok || got != `{"a": {"b": 1}}` {
		t.Errorf("ExtractJSONObject = %q, %v", got, ok)
	}
	if _, ok := ExtractJSONObject("no braces here"); ok {
		t.Error("expected no match")
	}
	if _, ok := ExtractJSONObject("} backwards {"); ok {
		t.Error("expected no match for reversed braces")
	}
}

func TestExtractJSONArray(t *testing.T) {
	got, ok := ExtractJSONArray(`here: ["a", "b"] done`)
	if !ok || got != `["a", "b"]` {
		t.Errorf("ExtractJSONArray = %q, %v", got, ok)
	}
	if _, ok := ExtractJSONArray("nothing"); ok {
		t.Error("expected no match")
	}
}
