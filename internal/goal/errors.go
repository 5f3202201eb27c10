package goal

import "errors"

// Code identifies the kind of a goal error.
type Code string

const (
	CodeInvalidPlan          Code = "INVALID_PLAN"
	CodeProgressMismatch     Code = "PROGRESS_MISMATCH"
	CodeProgressOverflow     Code = "PROGRESS_OVERFLOW"
	CodeProgressOutOfOrder   Code = "PROGRESS_OUT_OF_ORDER"
	CodeDuplicateCompletion  Code = "DUPLICATE_COMPLETION"
	CodeInvalidCompletion    Code = "INVALID_COMPLETION"
	CodeOutOfOrderCompletion Code = "OUT_OF_ORDER_COMPLETION"
	CodeGoalAlreadyComplete  Code = "GOAL_ALREADY_COMPLETE"
	CodeProgressRegressed    Code = "PROGRESS_REGRESSED"
	CodeProgressDiverged     Code = "PROGRESS_DIVERGED"
)

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrInvalidPlan          = &Error{Code: CodeInvalidPlan, Message: "invalid goal plan"}
	ErrProgressMismatch     = &Error{Code: CodeProgressMismatch, Message: "progress does not match plan"}
	ErrProgressOverflow     = &Error{Code: CodeProgressOverflow, Message: "progress overflows plan"}
	ErrProgressOutOfOrder   = &Error{Code: CodeProgressOutOfOrder, Message: "progress is out of order"}
	ErrDuplicateCompletion  = &Error{Code: CodeDuplicateCompletion, Message: "duplicate completion"}
	ErrInvalidCompletion    = &Error{Code: CodeInvalidCompletion, Message: "invalid completion"}
	ErrOutOfOrderCompletion = &Error{Code: CodeOutOfOrderCompletion, Message: "out of order completion"}
	ErrGoalAlreadyComplete  = &Error{Code: CodeGoalAlreadyComplete, Message: "goal is already complete"}
	ErrProgressRegressed    = &Error{Code: CodeProgressRegressed, Message: "progress regressed"}
	ErrProgressDiverged     = &Error{Code: CodeProgressDiverged, Message: "progress diverged"}
)

// Error is a goal failure tagged with its kind. StepID names the offending
// step and Expected the step that was required instead, when they apply.
type Error struct {
	Code     Code
	Message  string
	GoalID   string
	StepID   string
	Expected string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is a goal error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the first goal error in err's chain, or the
// empty code if there is none.
func CodeOf(err error) Code {
	var goalErr *Error
	if errors.As(err, &goalErr) {
		return goalErr.Code
	}
	return ""
}
