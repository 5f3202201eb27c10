package goal

import (
	"fmt"
	"time"
)

// TimestampLayout is the layout of default completion timestamps: UTC
// ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// now is the clock behind Advance. Tests replace it.
var now = time.Now

// Timestamp formats t the way Advance stamps completions.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewProgress validates plan and returns an empty progress snapshot for it.
func NewProgress(plan Plan) (Progress, error) {
	if err := ValidatePlan(plan); err != nil {
		return Progress{}, err
	}
	return Progress{
		GoalID:    plan.GoalID,
		Completed: []Completion{},
	}, nil
}

// MatchProgress checks that progress is consistent with plan: same goal id,
// no more completions than steps, completions in exact plan order, no
// duplicate step ids and no empty timestamps. It does not validate the plan
// itself.
func MatchProgress(plan Plan, progress Progress) error {
	if progress.GoalID != plan.GoalID {
		return &Error{
			Code:     CodeProgressMismatch,
			Message:  fmt.Sprintf("Progress goal id %q does not match plan %q.", progress.GoalID, plan.GoalID),
			GoalID:   progress.GoalID,
			Expected: plan.GoalID,
		}
	}

	if len(progress.Completed) > len(plan.Steps) {
		return &Error{
			Code:    CodeProgressOverflow,
			Message: fmt.Sprintf("Progress includes more steps than the plan defines (%d > %d).", len(progress.Completed), len(plan.Steps)),
			GoalID:  plan.GoalID,
		}
	}

	seen := make(map[string]struct{}, len(progress.Completed))
	for i, completion := range progress.Completed {
		expected := plan.Steps[i]
		if completion.StepID != expected.ID {
			return &Error{
				Code:     CodeProgressOutOfOrder,
				Message:  fmt.Sprintf("Progress step %q is out of order. Expected %q.", completion.StepID, expected.ID),
				GoalID:   plan.GoalID,
				StepID:   completion.StepID,
				Expected: expected.ID,
			}
		}
		if _, dup := seen[completion.StepID]; dup {
			return &Error{
				Code:    CodeDuplicateCompletion,
				Message: fmt.Sprintf("Progress step %q is duplicated in completed steps.", completion.StepID),
				GoalID:  plan.GoalID,
				StepID:  completion.StepID,
			}
		}
		seen[completion.StepID] = struct{}{}
		if isBlank(completion.CompletedAt) {
			return invalidCompletion(plan.GoalID, completion.StepID)
		}
	}
	return nil
}

// check runs the precondition shared by every query and transition.
func check(plan Plan, progress Progress) error {
	if err := ValidatePlan(plan); err != nil {
		return err
	}
	return MatchProgress(plan, progress)
}

// NextStep returns the next step to complete. ok is false when the goal is
// already complete.
func NextStep(plan Plan, progress Progress) (Step, bool, error) {
	if err := check(plan, progress); err != nil {
		return Step{}, false, err
	}
	if len(progress.Completed) == len(plan.Steps) {
		return Step{}, false, nil
	}
	return plan.Steps[len(progress.Completed)], true, nil
}

// RemainingSteps returns the steps not yet completed, in plan order. The
// result never shares memory with plan.
func RemainingSteps(plan Plan, progress Progress) ([]Step, error) {
	if err := check(plan, progress); err != nil {
		return nil, err
	}
	rest := plan.Steps[len(progress.Completed):]
	out := make([]Step, len(rest))
	copy(out, rest)
	return out, nil
}

// IsComplete reports whether every step of plan has been completed.
func IsComplete(plan Plan, progress Progress) (bool, error) {
	if err := check(plan, progress); err != nil {
		return false, err
	}
	return len(progress.Completed) == len(plan.Steps), nil
}

// Advance completes stepID now. See AdvanceAt.
func Advance(plan Plan, progress Progress, stepID string) (Progress, error) {
	return AdvanceAt(plan, progress, stepID, Timestamp(now()))
}

// AdvanceAt returns a new snapshot with stepID completed at completedAt.
// stepID must be exactly the next step of the plan; progress is left
// untouched.
func AdvanceAt(plan Plan, progress Progress, stepID, completedAt string) (Progress, error) {
	if err := check(plan, progress); err != nil {
		return Progress{}, err
	}

	if len(progress.Completed) == len(plan.Steps) {
		return Progress{}, &Error{
			Code:    CodeGoalAlreadyComplete,
			Message: "Goal is already complete.",
			GoalID:  plan.GoalID,
			StepID:  stepID,
		}
	}

	next := plan.Steps[len(progress.Completed)]
	if stepID != next.ID {
		for _, completion := range progress.Completed {
			if completion.StepID == stepID {
				return Progress{}, &Error{
					Code:    CodeDuplicateCompletion,
					Message: fmt.Sprintf("Step %q has already been completed.", stepID),
					GoalID:  plan.GoalID,
					StepID:  stepID,
				}
			}
		}
		return Progress{}, &Error{
			Code:     CodeOutOfOrderCompletion,
			Message:  fmt.Sprintf("Step %q is not the next required step. Expected %q.", stepID, next.ID),
			GoalID:   plan.GoalID,
			StepID:   stepID,
			Expected: next.ID,
		}
	}

	if isBlank(completedAt) {
		return Progress{}, invalidCompletion(plan.GoalID, stepID)
	}

	completed := make([]Completion, len(progress.Completed), len(progress.Completed)+1)
	copy(completed, progress.Completed)
	completed = append(completed, Completion{StepID: stepID, CompletedAt: completedAt})

	return Progress{
		GoalID:    progress.GoalID,
		Completed: completed,
	}, nil
}

func invalidCompletion(goalID, stepID string) *Error {
	return &Error{
		Code:    CodeInvalidCompletion,
		Message: fmt.Sprintf("Completion timestamp must be non-empty (step %q).", stepID),
		GoalID:  goalID,
		StepID:  stepID,
	}
}
