// Package formula implements the interaction-frequency rules: when a student
// is due for contact, when that need escalates to priority, and when a
// scheduled follow-up has lapsed past its grace period. All functions are pure
// over an explicit Config and clock so callers and tests control time.
package formula

import (
	"math"
	"strings"
	"time"
)

// Program is the closed set of program tracks a student can belong to.
type Program string

const (
	ProgramFoundations Program = "foundations"
	ProgramLiftoff     Program = "liftoff"
	ProgramLightspeed  Program = "lightspeed"
	Program101         Program = "101"
	// ProgramOther covers unrecognized program names; they use the default
	// interval rather than erroring.
	ProgramOther Program = "other"
)

// ParseProgram maps a free-form program name onto the closed enumeration.
// Matching is case-insensitive; unknown names become ProgramOther.
func ParseProgram(raw string) Program {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ProgramFoundations):
		return ProgramFoundations
	case string(ProgramLiftoff):
		return ProgramLiftoff
	case string(ProgramLightspeed):
		return ProgramLightspeed
	case string(Program101):
		return Program101
	default:
		return ProgramOther
	}
}

// Config holds the day thresholds and toggles governing due status.
type Config struct {
	DefaultIntervalDays      int
	FoundationsIntervalDays  int
	LiftoffIntervalDays      int
	LightspeedIntervalDays   int
	Program101IntervalDays   int
	EnablePriorityEscalation bool
	PriorityEscalationDays   int
	FollowUpGraceDays        int
	AutoFollowUpEnabled      bool
}

// DefaultConfig returns the documented fallback configuration used when the
// settings row is absent or unreadable.
func DefaultConfig() Config {
	return Config{
		DefaultIntervalDays:      30,
		FoundationsIntervalDays:  14,
		LiftoffIntervalDays:      21,
		LightspeedIntervalDays:   7,
		Program101IntervalDays:   30,
		EnablePriorityEscalation: true,
		PriorityEscalationDays:   7,
		FollowUpGraceDays:        3,
		AutoFollowUpEnabled:      true,
	}
}

// Result is the outcome of evaluating one student.
type Result struct {
	NeedsInteraction bool
	IsPriority       bool
	// DaysSinceLast is math.Inf(1) for students never contacted.
	DaysSinceLast float64
}

// NeverContacted reports whether the student has no interaction history.
func (r Result) NeverContacted() bool {
	return math.IsInf(r.DaysSinceLast, 1)
}

// DaysForProgram returns the configured interaction interval for a program.
func DaysForProgram(program Program, cfg Config) int {
	switch program {
	case ProgramFoundations:
		return cfg.FoundationsIntervalDays
	case ProgramLiftoff:
		return cfg.LiftoffIntervalDays
	case ProgramLightspeed:
		return cfg.LightspeedIntervalDays
	case Program101:
		return cfg.Program101IntervalDays
	default:
		return cfg.DefaultIntervalDays
	}
}

// Evaluate decides whether a student needs an interaction and whether that
// need is escalated. A nil lastInteraction means the student was never
// contacted and is always due and priority.
func Evaluate(lastInteraction *time.Time, program Program, cfg Config, now time.Time) Result {
	if lastInteraction == nil {
		return Result{NeedsInteraction: true, IsPriority: true, DaysSinceLast: math.Inf(1)}
	}

	days := math.Floor(now.Sub(*lastInteraction).Hours() / 24)
	threshold := float64(DaysForProgram(program, cfg))

	return Result{
		NeedsInteraction: days >= threshold,
		IsPriority:       cfg.EnablePriorityEscalation && days >= threshold+float64(cfg.PriorityEscalationDays),
		DaysSinceLast:    days,
	}
}

// IsFollowUpOverdue reports whether a scheduled follow-up date has lapsed
// beyond the grace period. Disabled auto follow-up, an empty date, or an
// unparseable date all yield false.
func IsFollowUpOverdue(followUpDate string, cfg Config, now time.Time) bool {
	if !cfg.AutoFollowUpEnabled || followUpDate == "" {
		return false
	}
	due, err := time.Parse("2006-01-02", followUpDate)
	if err != nil {
		return false
	}
	deadline := due.AddDate(0, 0, cfg.FollowUpGraceDays)
	return now.After(deadline)
}
