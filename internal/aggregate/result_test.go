package aggregate

import (
	"strings"
	"testing"
)

func validDayJSON() string {
	scores := make([]string, 48)
	for i := range scores {
		scores[i] = "10"
	}
	scores[0], scores[47] = "null", "-20"
	return `{
		"emotionScores": [` + strings.Join(scores, ",") + `],
		"averageScore": 99.9,
		"positiveHours": 1.0,
		"negativeHours": 1.0,
		"neutralHours": 1.0,
		"insights": ["a calm day overall"],
		"emotionChanges": [{"time": "09:00", "event": "lively breakfast", "score": 40}],
		"date": "2025-09-09"
	}`
}

func TestParseDayResult_RecomputesNumericFields(t *testing.T) {
	res, err := ParseDayResult([]byte(validDayJSON()))
	if err != nil {
		t.Fatal(err)
	}
	// 46 tens and one -20: the model's claimed averageScore of 99.9 is ignored.
	want := Summary{}
	var s Series
	copy(s[:], res.Scores)
	want = Summarize(s)
	if res.Summary != want {
		t.Errorf("Summary = %+v, want recomputed %+v", res.Summary, want)
	}
	if res.Summary.Average == 99.9 {
		t.Error("model-claimed average was trusted")
	}
	if res.Summary.Measured != 47 {
		t.Errorf("Measured = %d", res.Summary.Measured)
	}
}

func TestParseDayResult_WrongLength(t *testing.T) {
	if _, err := ParseDayResult([]byte(`{"emotionScores": [1, 2, 3]}`)); err == nil {
		t.Fatal("expected error for 3-entry score array")
	}
}

func TestParseDayResult_OutOfRange(t *testing.T) {
	scores := make([]string, 48)
	for i := range scores {
		scores[i] = "0"
	}
	scores[5] = "101"
	raw := `{"emotionScores": [` + strings.Join(scores, ",") + `]}`
	if _, err := ParseDayResult([]byte(raw)); err == nil {
		t.Fatal("expected error for score 101")
	}
}

func TestParseDayResult_NaNToken(t *testing.T) {
	scores := make([]string, 48)
	for i := range scores {
		scores[i] = "0"
	}
	scores[5] = "NaN"
	raw := `{"emotionScores": [` + strings.Join(scores, ",") + `]}`
	if _, err := ParseDayResult([]byte(raw)); err == nil {
		t.Fatal("expected error for literal NaN")
	}
}

func TestParseDayResult_TruncatesChanges(t *testing.T) {
	scores := make([]string, 48)
	for i := range scores {
		scores[i] = "null"
	}
	raw := `{
		"emotionScores": [` + strings.Join(scores, ",") + `],
		"emotionChanges": [
			{"time": "01:00", "event": "a", "score": 1},
			{"time": "02:00", "event": "b", "score": 2},
			{"time": "03:00", "event": "c", "score": 3},
			{"time": "04:00", "event": "d", "score": 4}
		]
	}`
	res, err := ParseDayResult([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Changes) != MaxChanges {
		t.Errorf("Changes = %d, want %d", len(res.Changes), MaxChanges)
	}
	if res.Summary.Average != 0.0 {
		t.Errorf("all-null average = %v, want 0.0", res.Summary.Average)
	}
}

func TestParseBlockResult(t *testing.T) {
	raw := "```json\n{\"time_block\": \"14-30\", \"summary\": \"quiet play\", \"behavior\": \"play,rest\", \"vibe_score\": 130}\n```"
	res, err := ParseBlockResult([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if res.TimeBlock != "14-30" || res.Behavior != "play,rest" {
		t.Errorf("got %+v", res)
	}
	if res.VibeScore != 100 {
		t.Errorf("VibeScore = %d, want clamped 100", res.VibeScore)
	}
}

func TestParseBlockResult_BadLabel(t *testing.T) {
	if _, err := ParseBlockResult([]byte(`{"time_block": "14-15", "vibe_score": 0}`)); err == nil {
		t.Fatal("expected error for non-canonical time block")
	}
}
