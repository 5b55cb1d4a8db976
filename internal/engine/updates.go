package engine

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveUsers Phase = iota
	GenerateUser
	SaveUser
)

func (p Phase) String() string {
	switch p {
	case ResolveUsers:
		return "resolve_users"
	case GenerateUser:
		return "generate_user"
	case SaveUser:
		return "save_user"
	default:
		return ""
	}
}

func resolvingUsersUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveUsers,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Generating recommendations for %d users...", total),
	}
}

func generatingUpdate(step, total int, email string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateUser,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Generating for %s...", step, total, email),
	}
}

func generatedUpdate(step, total int, email string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateUser,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d recommendations)", step, total, email, count),
	}
}

func userFailedUpdate(step, total int, email string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   GenerateUser,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, email, err),
	}
}

func savingUpdate(step, total int, email string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveUser,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Saving %d recommendations for %s...", step, total, count, email),
	}
}
