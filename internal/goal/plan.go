package goal

import (
	"fmt"
	"strings"
)

// ValidatePlan checks, in order: goal id, title, at least one step, every
// step id and title, and unique step ids. The first violation is returned.
func ValidatePlan(plan Plan) error {
	if isBlank(plan.GoalID) {
		return invalidPlan(plan.GoalID, "Goal id must be non-empty.", "")
	}
	if isBlank(plan.Title) {
		return invalidPlan(plan.GoalID, "Goal title must be non-empty.", "")
	}
	if len(plan.Steps) == 0 {
		return invalidPlan(plan.GoalID, "Goal plan must include at least one step.", "")
	}

	seen := make(map[string]struct{}, len(plan.Steps))
	for _, step := range plan.Steps {
		if isBlank(step.ID) {
			return invalidPlan(plan.GoalID, "Step id must be non-empty.", "")
		}
		if isBlank(step.Title) {
			return invalidPlan(plan.GoalID, fmt.Sprintf("Step title must be non-empty (step %q).", step.ID), step.ID)
		}
		if _, dup := seen[step.ID]; dup {
			return invalidPlan(plan.GoalID, fmt.Sprintf("Step id %q is duplicated in the plan.", step.ID), step.ID)
		}
		seen[step.ID] = struct{}{}
	}
	return nil
}

func invalidPlan(goalID, msg, stepID string) *Error {
	return &Error{Code: CodeInvalidPlan, Message: msg, GoalID: goalID, StepID: stepID}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
