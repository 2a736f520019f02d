package formula

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func TestParseProgramCaseInsensitive(t *testing.T) {
	cases := map[string]Program{
		"foundations": ProgramFoundations,
		"Foundations": ProgramFoundations,
		"FOUNDATIONS": ProgramFoundations,
		"liftoff":     ProgramLiftoff,
		"LightSpeed":  ProgramLightspeed,
		"101":         Program101,
		"":            ProgramOther,
		"bootcamp":    ProgramOther,
		"  liftoff ":  ProgramLiftoff,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseProgram(raw), "input %q", raw)
	}
}

func TestDaysForProgram(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 14, DaysForProgram(ProgramFoundations, cfg))
	assert.Equal(t, 21, DaysForProgram(ProgramLiftoff, cfg))
	assert.Equal(t, 7, DaysForProgram(ProgramLightspeed, cfg))
	assert.Equal(t, 30, DaysForProgram(Program101, cfg))
	assert.Equal(t, 30, DaysForProgram(ProgramOther, cfg))
}

func TestEvaluateNeverContacted(t *testing.T) {
	cfg := DefaultConfig()
	for _, program := range []Program{ProgramFoundations, ProgramLiftoff, ProgramLightspeed, Program101, ProgramOther} {
		result := Evaluate(nil, program, cfg, testNow)
		assert.True(t, result.NeedsInteraction, "program %s", program)
		assert.True(t, result.IsPriority, "program %s", program)
		assert.True(t, math.IsInf(result.DaysSinceLast, 1), "program %s", program)
		assert.True(t, result.NeverContacted())
	}

	// Holds even with escalation disabled.
	cfg.EnablePriorityEscalation = false
	result := Evaluate(nil, ProgramLiftoff, cfg, testNow)
	assert.True(t, result.IsPriority)
}

func TestEvaluateThresholdBoundaryInclusive(t *testing.T) {
	cfg := DefaultConfig()

	atThreshold := Evaluate(daysAgo(14), ProgramFoundations, cfg, testNow)
	require.True(t, atThreshold.NeedsInteraction)
	assert.Equal(t, float64(14), atThreshold.DaysSinceLast)

	oneBefore := Evaluate(daysAgo(13), ProgramFoundations, cfg, testNow)
	assert.False(t, oneBefore.NeedsInteraction)
}

func TestEvaluatePriorityEscalation(t *testing.T) {
	cfg := DefaultConfig()

	// 14 + 7 escalation days.
	escalated := Evaluate(daysAgo(21), ProgramFoundations, cfg, testNow)
	assert.True(t, escalated.NeedsInteraction)
	assert.True(t, escalated.IsPriority)

	dueNotEscalated := Evaluate(daysAgo(20), ProgramFoundations, cfg, testNow)
	assert.True(t, dueNotEscalated.NeedsInteraction)
	assert.False(t, dueNotEscalated.IsPriority)
}

func TestEvaluatePriorityDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnablePriorityEscalation = false

	result := Evaluate(daysAgo(400), ProgramLightspeed, cfg, testNow)
	assert.True(t, result.NeedsInteraction)
	assert.False(t, result.IsPriority)
}

func TestEvaluateLightspeedScenario(t *testing.T) {
	cfg := DefaultConfig()

	// 10 days >= 7 so due; priority needs 7+7=14 days.
	result := Evaluate(daysAgo(10), ProgramLightspeed, cfg, testNow)
	assert.True(t, result.NeedsInteraction)
	assert.False(t, result.IsPriority)
	assert.Equal(t, float64(10), result.DaysSinceLast)
}

func TestIsFollowUpOverdue(t *testing.T) {
	cfg := DefaultConfig() // grace 3 days, auto enabled

	fourDaysAgo := testNow.AddDate(0, 0, -4).Format("2006-01-02")
	twoDaysAgo := testNow.AddDate(0, 0, -2).Format("2006-01-02")

	assert.True(t, IsFollowUpOverdue(fourDaysAgo, cfg, testNow))
	assert.False(t, IsFollowUpOverdue(twoDaysAgo, cfg, testNow))
}

func TestIsFollowUpOverdueDisabledOrEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoFollowUpEnabled = false

	farPast := "2001-01-01"
	assert.False(t, IsFollowUpOverdue(farPast, cfg, testNow))

	cfg.AutoFollowUpEnabled = true
	assert.False(t, IsFollowUpOverdue("", cfg, testNow))
}

func TestIsFollowUpOverdueMalformedDate(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, IsFollowUpOverdue("not-a-date", cfg, testNow))
	assert.False(t, IsFollowUpOverdue("13/01/2024", cfg, testNow))
}

func TestResultSortOrdering(t *testing.T) {
	cfg := DefaultConfig()

	type entry struct {
		name   string
		result Result
	}
	entries := []entry{
		{"due-20d", Evaluate(daysAgo(20), ProgramFoundations, cfg, testNow)},
		{"never", Evaluate(nil, ProgramFoundations, cfg, testNow)},
		{"due-15d", Evaluate(daysAgo(15), ProgramFoundations, cfg, testNow)},
		{"priority-25d", Evaluate(daysAgo(25), ProgramFoundations, cfg, testNow)},
	}

	// Same ordering rule the batch operation applies: priority first, then
	// by descending days since last interaction.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].result, entries[j].result
		if a.IsPriority != b.IsPriority {
			return a.IsPriority
		}
		return a.DaysSinceLast > b.DaysSinceLast
	})

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	assert.Equal(t, []string{"never", "priority-25d", "due-20d", "due-15d"}, names)
}
