// Package prompt renders reconciled slot data into the fixed-format
// instruction blocks the analysis model consumes. Rendering is a total
// function: identical inputs produce byte-identical output, and the
// generated-at timestamp lives in the persisted envelope, never inside
// the prompt body.
package prompt

import (
	"fmt"
	"strings"

	"github.com/soundscope/moodline/internal/aggregate"
	"github.com/soundscope/moodline/internal/timeslot"
)

// Rule is one row of a prompt's rules table.
type Rule struct {
	Field       string
	Instruction string
}

// Profile parameterizes the renderer: task statement, schema example,
// rules and placeholders. Prompt iterations are new Profile values, not
// forked rendering code.
type Profile struct {
	Version     string
	Task        string
	Quality     []string // hard output-quality requirements
	ExampleJSON string
	Rules       []Rule
	Placeholder string // substituted when the day has no text at all
}

// exampleScores is the illustrative score array embedded in the day
// profile's output example. The statistics printed next to it are
// computed from it, so the example is internally consistent.
var exampleScores = func() aggregate.Series {
	values := []int{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		15, 20, 25, 30, 75, 80,
		40, 35, 30, 25, 20, 15, 10, 5, 0,
		-5, -10, -5, 0, 5, 10, 15, 20, 25, 30, 35,
		25, 20, 15, 10, 5, 0, 0,
	}
	var s aggregate.Series
	// Slots 0, 1 and 46 stay unmeasured in the example.
	i := 2
	for _, v := range values {
		if i == 46 {
			i++
		}
		score := v
		s[i] = &score
		i++
	}
	return s
}()

// ExampleScores returns the documented example series; the aggregate
// package must reproduce the statistics the example prints.
func ExampleScores() aggregate.Series { return exampleScores }

func exampleDayJSON(date string) string {
	sum := aggregate.Summarize(exampleScores)

	points := make([]string, timeslot.Count)
	scores := make([]string, timeslot.Count)
	for i, slot := range timeslot.Slots() {
		points[i] = fmt.Sprintf("%q", slot.Display())
		if exampleScores[i] == nil {
			scores[i] = "null"
		} else {
			scores[i] = fmt.Sprintf("%d", *exampleScores[i])
		}
	}

	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  \"timePoints\": [%s],\n", strings.Join(points, ", "))
	fmt.Fprintf(&b, "  \"emotionScores\": [%s],\n", strings.Join(scores, ", "))
	fmt.Fprintf(&b, "  \"averageScore\": %.1f,\n", sum.Average)
	fmt.Fprintf(&b, "  \"positiveHours\": %.1f,\n", sum.PositiveHours)
	fmt.Fprintf(&b, "  \"negativeHours\": %.1f,\n", sum.NegativeHours)
	fmt.Fprintf(&b, "  \"neutralHours\": %.1f,\n", sum.NeutralHours)
	b.WriteString(`  "insights": [
    "The morning was quiet with no speech, followed by a clear positive peak around nine.",
    "The afternoon showed only small swings and long settled stretches.",
    "Overall the day reads as emotionally stable."
  ],
  "emotionChanges": [
    { "time": "09:00", "event": "a lively celebration", "score": 75 },
    { "time": "15:00", "event": "emotions settle down", "score": 0 }
  ],
`)
	fmt.Fprintf(&b, "  \"date\": %q\n}", date)
	return b.String()
}

// DayProfile is the full-day mood chart prompt contract.
func DayProfile(date string) Profile {
	return Profile{
		Version: "day-v1",
		Task: "Analyze one full day of speech logs and produce the JSON data " +
			"for a psychological mood chart.",
		Quality: []string{
			"Missing data must be represented as null (NaN, undefined and Infinity are forbidden).",
			"The output must be valid JSON.",
			"\"not measured\" and \"audio captured but emotionally neutral (0)\" are distinct states; never conflate them.",
		},
		ExampleJSON: exampleDayJSON(date),
		Rules: []Rule{
			{"timePoints", "Required. List all 48 labels \"00:00\" through \"23:30\" in order."},
			{"emotionScores", "Exactly 48 entries, integers in -100..+100. Round fractions to integers; use null only for unmeasured slots."},
			{"lines marked (recorded, no speech)", "The recording exists but carries no meaningful speech. Score these blocks 0."},
			{"lines marked (no recording)", "The block's log is entirely missing (no data or processing failure). Score these blocks null. NaN is forbidden."},
			{"averageScore", "Mean of the non-null scores, one decimal place. Exactly 0.0 when every slot is null."},
			{"positiveHours / negativeHours / neutralHours", "Total time with score > 0, < 0 and = 0 respectively, in 0.5-hour units. Null slots count toward none of the three."},
			{"insights", "Around three natural-language sentences describing the day's emotional tendencies."},
			{"emotionChanges", "Up to three notable shifts: time, a short event description, and the score at that time."},
			{"date", "The analyzed date as a string."},
			{"output", "Return only the JSON object in the exact example shape. No commentary, no markdown fences."},
		},
		Placeholder: "(No speech was recorded on this day. Set every slot's score to null. NaN is forbidden.)",
	}
}

// BlockProfile is the single-30-minute-block prompt contract.
func BlockProfile() Profile {
	return Profile{
		Version: "block-v2",
		Task: "This is roughly one minute of audio sampled from a 30-minute block. " +
			"Taking the subject's age and the time of day into account, analyze the " +
			"situation captured in the recording.",
		Quality: []string{
			"Respond with a JSON object containing exactly the four fields below; all are required.",
			"This is a one-minute sample of a 30-minute block: avoid phrasing like \"for the whole 30 minutes\".",
			"Do not repeat the subject's name, age, gender or the time in the summary; they are already known.",
			"When no speech was captured, state the fact rather than concluding \"silence\".",
		},
		ExampleJSON: `{
  "time_block": "14-30",
  "summary": "First sentence: the subject's concrete activity at recording time. Second sentence: the psychological state it suggests.",
  "behavior": "up to three inferred activities, comma-separated (e.g. meal,conversation,tv)",
  "vibe_score": -36
}`,
		Rules: []Rule{
			{"vibe_score", "An integer in -100..+100. With no speech, stay near 0 (-10..+10) unless the ambient sound clearly indicates an activity."},
			{"score bands", "very positive (lively, joyful): 60..100; positive (calm, settled): 20..60; neutral: -20..20; negative (tired, discontent): -60..-20; very negative (crying, anger): -100..-60."},
			{"behavior", "Infer from the time of day even without speech (e.g. rest,observation,thinking)."},
			{"output", "Return only the JSON object. No commentary, no markdown fences."},
		},
		Placeholder: "No speech was captured in this one-minute sample.",
	}
}
