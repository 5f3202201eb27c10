package goal

import "fmt"

// AssertForwardOnly verifies that next is a forward evolution of previous
// against plan: both snapshots match the plan, next has at least as many
// completions, and every completion of previous appears unchanged at the
// same position in next.
func AssertForwardOnly(plan Plan, previous, next Progress) error {
	if err := ValidatePlan(plan); err != nil {
		return err
	}
	if err := MatchProgress(plan, previous); err != nil {
		return err
	}
	if err := MatchProgress(plan, next); err != nil {
		return err
	}

	if len(next.Completed) < len(previous.Completed) {
		return &Error{
			Code: CodeProgressRegressed,
			Message: fmt.Sprintf("Progress regressed by removing completed steps (%d -> %d).",
				len(previous.Completed), len(next.Completed)),
			GoalID: plan.GoalID,
		}
	}

	for i, prev := range previous.Completed {
		if next.Completed[i] != prev {
			return &Error{
				Code:     CodeProgressDiverged,
				Message:  fmt.Sprintf("Progress diverged at step %q. Expected identical completion history.", prev.StepID),
				GoalID:   plan.GoalID,
				StepID:   prev.StepID,
				Expected: prev.CompletedAt,
			}
		}
	}
	return nil
}

// IsForwardOnly reports whether AssertForwardOnly succeeds. Any failure,
// including an invalid plan or a mismatched snapshot, yields false.
func IsForwardOnly(plan Plan, previous, next Progress) bool {
	return AssertForwardOnly(plan, previous, next) == nil
}
