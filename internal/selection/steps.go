package selection

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// PresetSteps are the step names offered as one-click additions.
var PresetSteps = []string{
	"ES提出",
	"書類選考",
	"Webテスト",
	"適性検査",
	"説明会",
	"一次面接",
	"二次面接",
	"三次面接",
	"最終面接",
	"グループディスカッション",
	"インターンシップ",
	"OB・OG訪問",
	"ケース面接",
	"技術面接",
	"役員面接",
}

// NewStep describes a step to append.
type NewStep struct {
	Name          string
	Deadline      *time.Time
	ScheduledDate *time.Time
	Notes         string
}

// AddStep appends a pending step and returns the new list and the created step.
// The new order is one past the current maximum, so it stays unique after deletions.
func AddStep(steps []types.SelectionStep, in NewStep) ([]types.SelectionStep, types.SelectionStep, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return steps, types.SelectionStep{}, &Error{Message: "step name is required"}
	}

	step := types.SelectionStep{
		ID:            uuid.NewString(),
		Name:          name,
		Deadline:      in.Deadline,
		ScheduledDate: in.ScheduledDate,
		Status:        types.StepPending,
		Notes:         in.Notes,
		Order:         nextOrder(steps),
	}

	out := make([]types.SelectionStep, 0, len(steps)+1)
	out = append(out, steps...)
	out = append(out, step)
	return out, step, nil
}

func nextOrder(steps []types.SelectionStep) int {
	if len(steps) == 0 {
		return 0
	}
	maxOrder := steps[0].Order
	for _, s := range steps[1:] {
		if s.Order > maxOrder {
			maxOrder = s.Order
		}
	}
	return maxOrder + 1
}

// UpdateStep applies a partial update to the step with the given id.
func UpdateStep(steps []types.SelectionStep, id string, patch types.StepPatch) ([]types.SelectionStep, error) {
	return modify(steps, id, func(s *types.SelectionStep) error {
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return &Error{Message: "step name cannot be empty"}
			}
			s.Name = name
		}
		if patch.Notes != nil {
			s.Notes = *patch.Notes
		}
		s.Deadline = patchDate(s.Deadline, patch.Deadline, patch.ClearDeadline)
		s.ScheduledDate = patchDate(s.ScheduledDate, patch.ScheduledDate, patch.ClearScheduledDate)
		s.CompletedDate = patchDate(s.CompletedDate, patch.CompletedDate, patch.ClearCompletedDate)
		return nil
	})
}

func patchDate(current, next *time.Time, clear bool) *time.Time {
	if clear {
		return nil
	}
	if next != nil {
		return next
	}
	return current
}

// SetStatus assigns a status directly. Moving to completed stamps CompletedDate
// with now when it is unset; moving away from completed keeps the recorded date.
func SetStatus(steps []types.SelectionStep, id string, status types.StepStatus, now time.Time) ([]types.SelectionStep, error) {
	if !status.Valid() {
		return steps, &Error{Message: "invalid step status: " + string(status)}
	}
	return modify(steps, id, func(s *types.SelectionStep) error {
		s.Status = status
		if status == types.StepCompleted && s.CompletedDate == nil {
			t := now
			s.CompletedDate = &t
		}
		return nil
	})
}

// ToggleDone flips a step between pending and completed. Scheduled and failed
// steps toggle to completed.
func ToggleDone(steps []types.SelectionStep, id string, now time.Time) ([]types.SelectionStep, error) {
	s, ok := Find(steps, id)
	if !ok {
		return steps, &NotFoundError{StepID: id}
	}
	next := types.StepCompleted
	if s.Status == types.StepCompleted {
		next = types.StepPending
	}
	return SetStatus(steps, id, next, now)
}

// DeleteStep removes the step. Sibling orders are left as they are.
func DeleteStep(steps []types.SelectionStep, id string) ([]types.SelectionStep, error) {
	out := make([]types.SelectionStep, 0, len(steps))
	found := false
	for _, s := range steps {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		return steps, &NotFoundError{StepID: id}
	}
	return out, nil
}

// Sorted returns a copy ordered by Order, keeping insertion order for ties.
func Sorted(steps []types.SelectionStep) []types.SelectionStep {
	out := make([]types.SelectionStep, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Find returns the step with the given id.
func Find(steps []types.SelectionStep, id string) (types.SelectionStep, bool) {
	for _, s := range steps {
		if s.ID == id {
			return s, true
		}
	}
	return types.SelectionStep{}, false
}

// Progress returns how many steps are completed out of the total.
func Progress(steps []types.SelectionStep) (completed, total int) {
	for _, s := range steps {
		if s.Status == types.StepCompleted {
			completed++
		}
	}
	return completed, len(steps)
}

// modify copies steps and runs fn on the matching element of the copy.
func modify(steps []types.SelectionStep, id string, fn func(*types.SelectionStep) error) ([]types.SelectionStep, error) {
	out := make([]types.SelectionStep, len(steps))
	copy(out, steps)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if err := fn(&out[i]); err != nil {
			return steps, err
		}
		return out, nil
	}
	return steps, &NotFoundError{StepID: id}
}
