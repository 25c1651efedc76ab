// Package history defines the conversation history persistence contract.
package history

import (
	"context"
	"time"
)

type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// SessionKeys identify the conversation a message belongs to: the
// character configuration and the history thread within it.
type SessionKeys struct {
	ConfUID    string
	HistoryUID string
}

func (k SessionKeys) IsZero() bool { return k.ConfUID == "" && k.HistoryUID == "" }

// Entry is one stored message.
type Entry struct {
	Role      Role
	Content   string
	Name      string
	Avatar    string
	Timestamp time.Time
}

// Store persists conversation messages. Implementations must surface
// write failures; the orchestrator fails the turn rather than losing a
// message silently.
type Store interface {
	Write(ctx context.Context, keys SessionKeys, entry Entry) error
	Entries(ctx context.Context, keys SessionKeys) ([]Entry, error)
}
