// Package directory implements approval group storage. Groups hold an
// ordered member list; escalation resolves the member at a given approval
// level, so member order is significant.
package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Group is a named, ordered set of approvers.
type Group struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberAt returns the member at the given zero-based level.
func (g Group) MemberAt(level int) (string, bool) {
	if level < 0 || level >= len(g.Members) {
		return "", false
	}
	return g.Members[level], true
}

// CreateCommand carries the data needed to define a new approval group.
type CreateCommand struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// Validate checks the command for structural problems.
func (c CreateCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if len(c.Members) == 0 {
		return ErrNoMembers
	}
	for _, m := range c.Members {
		if strings.TrimSpace(m) == "" {
			return ErrNoMembers
		}
	}
	return nil
}
