// Package goal tracks ordered completion of a goal plan.
//
// A Plan is an ordered list of steps that defines the only valid completion
// order. A Progress value records which prefix of that list has been
// completed and when:
//
//	plan := goal.Plan{
//	  GoalID: "goal-1",
//	  Title:  "Ship the thing",
//	  Steps: []goal.Step{
//	    {ID: "step-1", Title: "Define scope"},
//	    {ID: "step-2", Title: "Implement"},
//	    {ID: "step-3", Title: "Verify"},
//	  },
//	}
//
//	progress, err := goal.NewProgress(plan)
//	progress, err = goal.AdvanceAt(plan, progress, "step-1", "2024-01-01T00:00:00.000Z")
//
// # State Machine
//
// Progress against a plan with N steps is a linear automaton with states
// 0..N, where state k means the first k steps are completed in plan order.
// The only transition is k -> k+1 and it requires exactly Steps[k].ID.
// State N is terminal.
//
// # Immutability
//
// Every function takes plain values and returns new ones. Plans and progress
// snapshots are never modified in place, so the package is safe to call from
// any number of goroutines without locking. Every query revalidates the plan
// and matches the progress against it first; nothing is cached between calls.
//
// # Forward-only Progression
//
// AssertForwardOnly checks that a newer snapshot only extends an older one:
// no completions removed and the shared prefix identical in both step id and
// timestamp. Hosts that publish snapshots can use it as the validation
// predicate of a compare-and-swap.
//
// # Errors
//
// All failures are *Error values tagged with a Code. Use errors.Is with the
// exported sentinels (ErrDuplicateCompletion, ErrProgressDiverged, ...) or
// CodeOf to branch on the kind.
package goal
