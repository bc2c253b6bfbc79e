package sla

import (
	"time"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// Snapshot carries the deadline and completion fields the evaluator needs.
type Snapshot struct {
	FirstResponseDue *time.Time
	FirstResponseAt  *time.Time
	ResolutionDue    *time.Time
	ResolvedAt       *time.Time
}

// Policy tunes the at-risk classification. AtRiskWindow is the reference
// window measured back from a deadline; a still-open deadline is at risk
// once the remaining time drops below AtRiskThreshold of that window.
type Policy struct {
	AtRiskWindow    time.Duration
	AtRiskThreshold float64
}

// DefaultPolicy mirrors the historical behavior: a fixed one-hour window
// with a 20% threshold, i.e. at risk within the last 12 minutes.
func DefaultPolicy() Policy {
	return Policy{
		AtRiskWindow:    time.Hour,
		AtRiskThreshold: 0.2,
	}
}

// Evaluate classifies SLA health at the given instant. Breach wins over
// at-risk; a deadline whose completion field is already stamped no longer
// contributes. The function is pure: callers must re-run it on every read
// since the result depends on now even without mutations.
func Evaluate(s Snapshot, now time.Time, policy Policy) domain.SLAHealth {
	if pastDue(s.FirstResponseDue, s.FirstResponseAt, now) || pastDue(s.ResolutionDue, s.ResolvedAt, now) {
		return domain.SLABreached
	}
	if nearDue(s.FirstResponseDue, s.FirstResponseAt, now, policy) || nearDue(s.ResolutionDue, s.ResolvedAt, now, policy) {
		return domain.SLAAtRisk
	}
	return domain.SLAOnTrack
}

// EvaluateSnapshot adapts a persisted SLA record for Evaluate.
func EvaluateSnapshot(status *domain.SLAStatus, now time.Time, policy Policy) domain.SLAHealth {
	if status == nil {
		return domain.SLAOnTrack
	}
	return Evaluate(Snapshot{
		FirstResponseDue: status.FirstResponseDue,
		FirstResponseAt:  status.FirstResponseAt,
		ResolutionDue:    status.ResolutionDue,
		ResolvedAt:       status.ResolvedAt,
	}, now, policy)
}

// BreachFlags derives the persisted breach booleans: a deadline counts as
// breached when it passed without completion, or when completion arrived
// after it. Late completion stays breached on record.
func BreachFlags(s Snapshot, now time.Time) (firstResponseBreached, resolutionBreached bool) {
	return deadlineBreached(s.FirstResponseDue, s.FirstResponseAt, now),
		deadlineBreached(s.ResolutionDue, s.ResolvedAt, now)
}

func deadlineBreached(due, done *time.Time, now time.Time) bool {
	if due == nil {
		return false
	}
	if done == nil {
		return now.After(*due)
	}
	return done.After(*due)
}

func pastDue(due, done *time.Time, now time.Time) bool {
	return due != nil && done == nil && now.After(*due)
}

func nearDue(due, done *time.Time, now time.Time, policy Policy) bool {
	if due == nil || done != nil {
		return false
	}
	if policy.AtRiskWindow <= 0 {
		return false
	}
	remaining := due.Sub(now)
	return float64(remaining) < policy.AtRiskThreshold*float64(policy.AtRiskWindow)
}
