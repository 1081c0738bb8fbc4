package extract

import "testing"

func TestText_CandidateFieldOrder(t *testing.T) {
	node := map[string]any{
		"transcript": "second choice",
		"text":       "first choice",
		"content":    "third choice",
	}
	if got := Text(node); got != "first choice" {
		t.Errorf("Text = %q, want %q", got, "first choice")
	}
}

func TestText_SkipsEmptyCandidates(t *testing.T) {
	node := map[string]any{
		"text":          "   ",
		"transcription": "actual words",
	}
	if got := Text(node); got != "actual words" {
		t.Errorf("Text = %q, want %q", got, "actual words")
	}
}

func TestText_RecursesIntoNestedMaps(t *testing.T) {
	node := map[string]any{
		"meta": map[string]any{"model": "whisper-large"},
		"result": map[string]any{
			"segments": []any{
				map[string]any{"text": "hello from a segment"},
			},
		},
	}
	if got := Text(node); got != "hello from a segment" {
		t.Errorf("Text = %q", got)
	}
}

func TestText_RecursesIntoSequences(t *testing.T) {
	node := []any{
		map[string]any{"confidence": 0.9},
		map[string]any{"transcript": "  padded  "},
	}
	if got := Text(node); got != "padded" {
		t.Errorf("Text = %q", got)
	}
}

func TestText_BareString(t *testing.T) {
	if got := Text("  just words  "); got != "just words" {
		t.Errorf("Text = %q", got)
	}
}

func TestText_NoMatch(t *testing.T) {
	for _, node := range []any{
		nil,
		42,
		true,
		map[string]any{"count": 3, "items": []any{1, 2}},
		[]any{},
		"   ",
	} {
		if got := Text(node); got != "" {
			t.Errorf("Text(%v) = %q, want empty", node, got)
		}
	}
}

func TestText_ToleratesHeterogeneousTypes(t *testing.T) {
	// Candidate field holding a non-string must not match or panic.
	node := map[string]any{
		"text":  42,
		"inner": map[string]any{"content": "fallback"},
	}
	if got := Text(node); got != "fallback" {
		t.Errorf("Text = %q, want %q", got, "fallback")
	}
}

func TestText_Deterministic(t *testing.T) {
	node := map[string]any{
		"a": map[string]any{"note": "alpha"},
		"b": map[string]any{"note": "beta"},
	}
	first := Text(node)
	for i := 0; i < 50; i++ {
		if got := Text(node); got != first {
			t.Fatalf("iteration %d: Text = %q, first run was %q", i, got, first)
		}
	}
	if first != "alpha" {
		t.Errorf("Text = %q, want %q (sorted key order)", first, "alpha")
	}
}

func TestFromRaw(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"json object", `{"transcription": "from json"}`, "from json"},
		{"json string", `"quoted"`, "quoted"},
		{"plain text", "not json at all", "not json at all"},
		{"empty object", `{}`, ""},
		{"whitespace", "   ", ""},
	}
	for _, tc := range cases {
		if got := FromRaw([]byte(tc.raw)); got != tc.want {
			t.Errorf("%s: FromRaw = %q, want %q", tc.name, got, tc.want)
		}
	}
}
