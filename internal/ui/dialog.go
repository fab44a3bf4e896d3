package ui

import (
	"github.com/desertthunder/tonelink/internal/models"
)

// DialogPhase tracks where the connect flow currently is.
type DialogPhase int

const (
	PhaseIdle DialogPhase = iota
	PhaseSearching
	PhaseResults
	PhaseConnecting
	PhaseConnected
	PhaseError
)

func (p DialogPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSearching:
		return "searching"
	case PhaseResults:
		return "results"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseError:
		return "error"
	default:
		return ""
	}
}

// DialogState is the complete state of the connect-search dialog.
//
// ActiveIndex is -1 whenever no result is highlighted; it only carries
// meaning while ShowResults is true.
type DialogState struct {
	Query       string
	Results     []models.Artist
	ShowResults bool
	ActiveIndex int
	Err         string
	Phase       DialogPhase
}

// NewDialogState returns the initial dialog state.
func NewDialogState() DialogState {
	return DialogState{ActiveIndex: -1, Phase: PhaseIdle}
}

// Action is a state transition request handled by [Reduce].
type Action interface {
	isAction()
}

// SetQuery replaces the query text. Editing the query always clears the
// highlight and any previous error.
type SetQuery struct{ Query string }

// SetResults installs search results for display.
type SetResults struct{ Artists []models.Artist }

// SetShowResults toggles the results list.
type SetShowResults struct{ Show bool }

// SetActiveIndex moves the highlight directly; out-of-range values clamp.
type SetActiveIndex struct{ Index int }

// SetError records a failure and surfaces it in the dialog.
type SetError struct{ Message string }

// StartSearch marks a search in flight.
type StartSearch struct{}

// StartConnect marks the connect call in flight.
type StartConnect struct{}

// Connected marks the flow finished successfully.
type Connected struct{}

// ClearSearch empties the query and results but keeps the dialog open.
type ClearSearch struct{}

// Reset returns the dialog to its initial state.
type Reset struct{}

// Keyboard movement actions. Down and up wrap at the list boundaries.
type (
	MoveDown struct{}
	MoveUp   struct{}
	MoveHome struct{}
	MoveEnd  struct{}
)

func (SetQuery) isAction()       {}
func (SetResults) isAction()     {}
func (SetShowResults) isAction() {}
func (SetActiveIndex) isAction() {}
func (SetError) isAction()       {}
func (StartSearch) isAction()    {}
func (StartConnect) isAction()   {}
func (Connected) isAction()      {}
func (ClearSearch) isAction()    {}
func (Reset) isAction()          {}
func (MoveDown) isAction()       {}
func (MoveUp) isAction()         {}
func (MoveHome) isAction()       {}
func (MoveEnd) isAction()        {}

// Reduce applies a single action to the state and returns the next state.
// It never mutates its input.
func Reduce(s DialogState, a Action) DialogState {
	switch a := a.(type) {
	case SetQuery:
		s.Query = a.Query
		s.ActiveIndex = -1
		s.Err = ""
		if a.Query == "" {
			s.Results = nil
			s.ShowResults = false
			s.Phase = PhaseIdle
		}
		return s

	case SetResults:
		s.Results = a.Artists
		s.ShowResults = true
		s.ActiveIndex = -1
		s.Phase = PhaseResults
		return s

	case SetShowResults:
		s.ShowResults = a.Show
		if !a.Show {
			s.ActiveIndex = -1
		}
		return s

	case SetActiveIndex:
		s.ActiveIndex = clampIndex(a.Index, len(s.Results))
		return s

	case SetError:
		s.Err = a.Message
		s.Phase = PhaseError
		return s

	case StartSearch:
		s.Phase = PhaseSearching
		s.Err = ""
		return s

	case StartConnect:
		s.Phase = PhaseConnecting
		s.ShowResults = false
		s.Err = ""
		return s

	case Connected:
		s.Phase = PhaseConnected
		return s

	case ClearSearch:
		s.Query = ""
		s.Results = nil
		s.ShowResults = false
		s.ActiveIndex = -1
		s.Err = ""
		s.Phase = PhaseIdle
		return s

	case Reset:
		return NewDialogState()

	case MoveDown:
		if !s.ShowResults || len(s.Results) == 0 {
			return s
		}
		if s.ActiveIndex >= len(s.Results)-1 {
			s.ActiveIndex = 0
		} else {
			s.ActiveIndex++
		}
		return s

	case MoveUp:
		if !s.ShowResults || len(s.Results) == 0 {
			return s
		}
		if s.ActiveIndex <= 0 {
			s.ActiveIndex = len(s.Results) - 1
		} else {
			s.ActiveIndex--
		}
		return s

	case MoveHome:
		if !s.ShowResults || len(s.Results) == 0 {
			return s
		}
		s.ActiveIndex = 0
		return s

	case MoveEnd:
		if !s.ShowResults || len(s.Results) == 0 {
			return s
		}
		s.ActiveIndex = len(s.Results) - 1
		return s
	}

	return s
}

// Selected returns the highlighted artist, if any.
func (s DialogState) Selected() (models.Artist, bool) {
	if !s.ShowResults || s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Results) {
		return models.Artist{}, false
	}
	return s.Results[s.ActiveIndex], true
}

func clampIndex(index, length int) int {
	if index < 0 || length == 0 {
		return -1
	}
	if index >= length {
		return length - 1
	}
	return index
}
