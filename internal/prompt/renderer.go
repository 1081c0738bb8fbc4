package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/soundscope/moodline/internal/reconcile"
	"github.com/soundscope/moodline/internal/signal"
	"github.com/soundscope/moodline/internal/timeslot"
)

// Renderer serializes reconciled data under one prompt profile.
type Renderer struct {
	day   func(date string) Profile
	block func() Profile
}

// NewRenderer returns a renderer over the built-in profiles.
func NewRenderer() *Renderer {
	return &Renderer{day: DayProfile, block: BlockProfile}
}

func writeSections(b *strings.Builder, p Profile) {
	b.WriteString("## Task\n")
	b.WriteString(p.Task)
	b.WriteString("\n\n## Output quality requirements\n")
	for _, q := range p.Quality {
		fmt.Fprintf(b, "- %s\n", q)
	}
	b.WriteString("\n## Output format (follow exactly, include every field)\n```json\n")
	b.WriteString(p.ExampleJSON)
	b.WriteString("\n```\n\n## Rules\n| Field | Instruction |\n|-------|-------------|\n")
	for _, r := range p.Rules {
		fmt.Fprintf(b, "| %s | %s |\n", r.Field, r.Instruction)
	}
}

// RenderDay produces the full-day analysis prompt: contract sections
// from the day profile, then the 48-line timeline. Every slot gets a
// line; the marker distinguishes an absent recording from a recording
// with no speech so the model can apply the null-vs-zero rule.
func (r *Renderer) RenderDay(date string, day *reconcile.Day) string {
	p := r.day(date)
	var b strings.Builder
	writeSections(&b, p)

	fmt.Fprintf(&b, "\n## Speech log (%s)\n", date)
	if day.Processed() == 0 {
		b.WriteString(p.Placeholder)
		b.WriteString("\n")
		return b.String()
	}
	for _, obs := range day.Observations {
		switch obs.Kind {
		case reconcile.TextPresent:
			fmt.Fprintf(&b, "[%s] %s\n", obs.Slot.Display(), obs.Text)
		case reconcile.EmptyPresent:
			fmt.Fprintf(&b, "[%s] (recorded, no speech)\n", obs.Slot.Display())
		default:
			fmt.Fprintf(&b, "[%s] (no recording)\n", obs.Slot.Display())
		}
	}
	return b.String()
}

// BlockContext carries everything the per-block prompt mentions.
type BlockContext struct {
	Date        string
	Slot        timeslot.Slot
	Observation reconcile.Observation
	Profile     *signal.SubjectProfile
	SoundEvents []signal.SoundEvent
	Features    []signal.FeatureSample
}

// RenderBlock produces the single-block analysis prompt.
func (r *Renderer) RenderBlock(c BlockContext) string {
	p := r.block()
	var b strings.Builder
	writeSections(&b, p)

	b.WriteString("\n## Observation context\n")
	b.WriteString("Subject: ")
	b.WriteString(describeSubject(c.Profile))
	b.WriteString("\n")
	eh, em := c.Slot.End()
	fmt.Fprintf(&b, "Time: %s %s-%02d:%02d (30-minute block, %s)\n",
		c.Date, c.Slot.Display(), eh, em, c.Slot.DayPart())
	if t, err := time.Parse("2006-01-02", c.Date); err == nil {
		info := timeslot.InfoFor(t)
		dayType := "weekday"
		if info.IsWeekend {
			dayType = "weekend"
		}
		fmt.Fprintf(&b, "Day: %s (%s)\nSeason: %s\n", info.Weekday, dayType, info.Season)
	}

	b.WriteString("\n## Recorded speech\n")
	if c.Observation.Kind == reconcile.TextPresent {
		fmt.Fprintf(&b, "%q\n", c.Observation.Text)
	} else {
		b.WriteString(p.Placeholder)
		b.WriteString("\n")
	}

	b.WriteString("\n## Ambient sound\n")
	b.WriteString(describeSoundEvents(c.SoundEvents))
	b.WriteString("\n")

	if line := describeLoudness(c.Features); line != "" {
		b.WriteString("\n## Voice features\n")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func describeSubject(p *signal.SubjectProfile) string {
	if p == nil {
		return "no information"
	}
	parts := []string{}
	if p.Age != nil {
		parts = append(parts, fmt.Sprintf("%d years old", *p.Age))
	} else {
		parts = append(parts, "age unknown")
	}
	if p.Gender != "" {
		parts = append(parts, p.Gender)
	}
	if p.Notes != "" {
		parts = append(parts, "notes: "+p.Notes)
	}
	return strings.Join(parts, ", ")
}

// describeSoundEvents summarizes detections with probability >= 0.3,
// keeping at most five labels in their given order.
func describeSoundEvents(events []signal.SoundEvent) string {
	if len(events) == 0 {
		return "no ambient sound data"
	}
	var labels []string
	for _, e := range events {
		if e.Prob >= 0.3 {
			labels = append(labels, e.Label)
		}
		if len(labels) == 5 {
			break
		}
	}
	if len(labels) == 0 {
		return "no distinctive ambient sound"
	}
	return "detected sounds: " + strings.Join(labels, ", ")
}

// describeLoudness characterizes the average loudness of the sampled
// minute. Thresholds follow the upstream feature extractor's dB-like
// scale, where quiet rooms sit well below -40.
func describeLoudness(features []signal.FeatureSample) string {
	if len(features) == 0 {
		return ""
	}
	var sum float64
	for _, f := range features {
		sum += f.Loudness
	}
	avg := sum / float64(len(features))
	switch {
	case avg > -20:
		return "loudness: high (possibly lively activity)"
	case avg < -40:
		return "loudness: low (quiet environment)"
	default:
		return "loudness: moderate"
	}
}
