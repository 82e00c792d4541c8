// Package session tracks per-chat conversation state. Every update is
// handled independently; the only shared state is the store itself,
// keyed by chat id. Concurrent updates for the same chat are
// last-write-wins, there is no cross-request locking.
package session

import (
	"context"

	"geobot/internal/geocode"
)

// State identifies what kind of input the chat is waiting for next.
type State string

const (
	// StateIdle indicates there is no active conversation with the chat.
	StateIdle State = "idle"
	// StateAwaitingQuery means the next text message is a free-text search query.
	StateAwaitingQuery State = "awaiting_query"
	// StateSelectingDetails means the chat is toggling detail fields on the advanced keyboard.
	StateSelectingDetails State = "selecting_details"
	// StateAwaitingDetails means the next text message carries the comma-separated detail values.
	StateAwaitingDetails State = "awaiting_details"
)

// Session stores conversation state for a single chat.
// Details is only populated during the advanced search flow and keeps
// the order in which the fields were toggled.
type Session struct {
	State   State           `json:"state"`
	Details []geocode.Field `json:"details,omitempty"`
}

// Idle returns a fresh default session.
func Idle() Session {
	return Session{State: StateIdle}
}

// Store persists sessions keyed by chat id.
type Store interface {
	// Get returns the session for a chat. Unknown chats yield a
	// default idle session rather than an error.
	Get(ctx context.Context, chatID int64) (Session, error)
	// Put upserts the session for a chat.
	Put(ctx context.Context, chatID int64, s Session) error
}
