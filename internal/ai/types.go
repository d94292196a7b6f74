// Package ai provides conversation state and prompt construction for generative model calls.
package ai

import (
	"errors"
	"fmt"
)

var ErrUnknownRole = errors.New("unknown role")

// Role identifies the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole converts a stored role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownRole, s)
	}
}

// Label returns the speaker label used when rendering the role into a prompt
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// Turn is one message in a conversation. Turns are never modified after they are appended
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// UserTurn returns a turn authored by the user
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// AssistantTurn returns a turn authored by the model
func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}
