package tasks

import (
	"fmt"

	"github.com/desertthunder/tonelink/internal/models"
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
	Fetching Phase = iota
	Refreshing
	Auditing
	Exporting
	Complete
	Failed
)

func (p Phase) String() string {
	switch p {
	case Fetching:
		return "fetching"
	case Refreshing:
		return "refreshing"
	case Auditing:
		return "auditing"
	case Exporting:
		return "exporting"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func fetchingLinksUpdate(profileID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetching,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching links for profile %s...", profileID),
	}
}

func refreshedUpdate(step, total int, link *models.Link, followers int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Refreshing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d followers", step, total, link.Platform(), followers),
		Data:    link,
	}
}

func refreshFailedUpdate(step, total int, link *models.Link, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Refreshing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, link.Platform(), err),
	}
}

func auditedUpdate(step, total int, res LinkAuditResult) ProgressUpdate {
	mark := "✓"
	if !res.Healthy {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   Auditing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, res.Link.URL()),
		Data:    res,
	}
}

func exportingProfileUpdate(step, total int, username string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Exporting,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, username),
	}
}

func exportCompletedUpdate(step, total int, username string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Exporting,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, username, filesCount),
	}
}

func exportFailedUpdate(step, total int, username string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Exporting,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, username, err),
	}
}

func completeUpdate(message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    1,
		Total:   1,
		Message: message,
	}
}
