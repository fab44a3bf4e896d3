package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tonelink/internal/models"
	tu "github.com/desertthunder/tonelink/internal/testing"
)

func typeKeys(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelDebounce(t *testing.T) {
	t.Run("Armed Tick Fires The Search", func(t *testing.T) {
		spotify := &tu.MockService{Artists: []models.Artist{{ID: "a", Name: "Artist"}}}
		m := NewModel(context.Background(), spotify, nil)
		typeKeys(m, "mag")

		_, cmd := m.Update(debounceMsg{seq: m.seq})
		if m.state.Phase != PhaseSearching {
			t.Fatalf("expected searching phase, got %s", m.state.Phase)
		}
		if cmd == nil {
			t.Fatal("expected a search command")
		}

		m.Update(cmd())
		if m.state.Phase != PhaseResults || len(m.state.Results) != 1 {
			t.Errorf("expected one result shown, got %s with %d results", m.state.Phase, len(m.state.Results))
		}
	})

	t.Run("Deleting The Query Invalidates The Armed Tick", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockService{}, nil)
		typeKeys(m, "a")
		armed := m.seq

		m.Update(tea.KeyMsg{Type: tea.KeyBackspace})

		_, cmd := m.Update(debounceMsg{seq: armed})
		if cmd != nil {
			t.Error("expected the stale tick to be dropped")
		}
		if m.state.Phase != PhaseIdle {
			t.Errorf("expected idle phase after clearing, got %s", m.state.Phase)
		}
		if m.state.ShowResults {
			t.Error("expected results to stay hidden")
		}
	})

	t.Run("Clear Key Invalidates The Armed Tick", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockService{}, nil)
		typeKeys(m, "a")
		armed := m.seq

		m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

		_, cmd := m.Update(debounceMsg{seq: armed})
		if cmd != nil {
			t.Error("expected the stale tick to be dropped")
		}
		if m.state.Phase != PhaseIdle {
			t.Errorf("expected idle phase after clear, got %s", m.state.Phase)
		}
	})

	t.Run("Stale Completion Is Dropped", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockService{}, nil)
		typeKeys(m, "ma")
		stale := m.seq
		typeKeys(m, "g")

		m.Update(searchResultMsg{seq: stale, artists: []models.Artist{{ID: "a"}}})
		if m.state.ShowResults {
			t.Error("expected the superseded completion to be ignored")
		}
	})
}
