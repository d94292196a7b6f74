package ai

import (
	"context"
	"fmt"
)

const (
	// MaxPromptTurns is the number of most recent turns included when rendering a prompt. Older turns stay in
	// storage but are never sent to the model
	MaxPromptTurns = 10

	// AssistantCue is the trailing prompt line that asks the model to continue the dialogue
	AssistantCue = "Assistant:"
)

// RenderPrompt renders the last MaxPromptTurns turns into prompt lines: the preamble, one "<Role>: <text>" line
// per turn in chronological order, and a trailing AssistantCue
func RenderPrompt(turns []Turn, preamble string) []string {
	if len(turns) > MaxPromptTurns {
		turns = turns[len(turns)-MaxPromptTurns:]
	}

	lines := make([]string, 0, len(turns)+2)
	lines = append(lines, preamble)
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role.Label(), turn.Text))
	}
	lines = append(lines, AssistantCue)
	return lines
}

// Manager maintains per-session conversation history on top of a HistoryStore.
//
// Manager does no locking of its own. Two concurrent requests for the same session may both read the same
// history and both append to it; the store keeps each call memory-safe but nothing orders them.
type Manager struct {
	store HistoryStore
}

func NewManager(store HistoryStore) *Manager {
	return &Manager{store: store}
}

// Append appends turns to a session's history in the given order
func (m *Manager) Append(ctx context.Context, session string, turns ...Turn) error {
	for _, turn := range turns {
		if _, err := ParseRole(string(turn.Role)); err != nil {
			return err
		}
	}
	if err := m.store.Append(ctx, session, turns...); err != nil {
		return fmt.Errorf("failed to append to conversation history: %w", err)
	}
	return nil
}

// History returns a session's full history, oldest first. A session with no history yields an empty slice
func (m *Manager) History(ctx context.Context, session string) ([]Turn, error) {
	turns, err := m.store.Get(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns, nil
}

// RenderPrompt renders a session's stored history followed by pending turns with RenderPrompt. Pending turns
// are not stored
func (m *Manager) RenderPrompt(ctx context.Context, session string, preamble string, pending ...Turn) ([]string, error) {
	turns, err := m.History(ctx, session)
	if err != nil {
		return nil, err
	}
	return RenderPrompt(append(turns, pending...), preamble), nil
}

// Clear empties a session's history
func (m *Manager) Clear(ctx context.Context, session string) error {
	if err := m.store.Clear(ctx, session); err != nil {
		return fmt.Errorf("failed to clear conversation history: %w", err)
	}
	return nil
}
