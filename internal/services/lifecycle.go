package services

import (
	"math"
	"strings"
	"time"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

// roundHours is the single canonical rounding point for durations. Every
// stored duration_hours value passes through here exactly once.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func durationBetween(start, end time.Time) float64 {
	return roundHours(end.Sub(start).Seconds() / 3600)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// recomputeOverdue runs unconditionally on every save, not just on stage
// transitions. A request sitting untouched in New becomes overdue as
// calendar time passes; a terminal request never counts as overdue.
func recomputeOverdue(req *entities.MaintenanceRequest, now time.Time) {
	req.IsOverdue = req.ScheduledDate != nil &&
		!req.Stage.IsTerminal() &&
		dateOf(*req.ScheduledDate).Before(dateOf(now))
}

func validateTransition(req *entities.MaintenanceRequest, target entities.Stage) error {
	if !target.Valid() {
		return apperrors.NewValidationError("stage", "unknown stage %q", string(target))
	}
	if !req.Stage.CanTransitionTo(target) {
		return apperrors.NewValidationError("stage",
			"cannot move request from %q to %q", string(req.Stage), string(target))
	}
	if target == entities.StageRepaired && !req.Stage.IsTerminal() {
		if req.ResolutionSummary == nil || strings.TrimSpace(*req.ResolutionSummary) == "" {
			return apperrors.NewValidationError("resolution_summary",
				"resolution summary is required to mark a request repaired")
		}
	}
	return nil
}

// startRequest moves the request into In Progress and stamps the actual
// start time once. Re-starting never resets the clock.
func startRequest(req *entities.MaintenanceRequest, now time.Time) {
	req.Stage = entities.StageInProgress
	if req.ActualStartTime == nil {
		start := now
		req.ActualStartTime = &start
	}
}

// finishRequest applies the terminal side effects shared by Repaired and
// Scrap. Each field is filled only when currently unset, so re-saving a
// finished request is a no-op: the computed duration never drifts. A
// manually supplied duration_hours is never overwritten.
func finishRequest(req *entities.MaintenanceRequest, target entities.Stage, now time.Time) {
	req.Stage = target
	if req.ActualEndTime == nil {
		end := now
		req.ActualEndTime = &end
	}
	if req.ActualStartTime != nil && req.DurationHours == nil {
		d := durationBetween(*req.ActualStartTime, *req.ActualEndTime)
		req.DurationHours = &d
	}
	if req.CompletedDate == nil {
		today := dateOf(now)
		req.CompletedDate = &today
	}
}
