// Package store persists channel records and session links. The core
// never sees a filesystem path; everything goes through the Store
// interface so the review logic is testable with the in-memory stand-in.
package store

import (
	"time"

	"github.com/planwg/planwg/internal/plan"
)

// SessionLink maps a working directory to a channel thread. At most one
// per directory; re-linking overwrites.
type SessionLink struct {
	Channel  string    `json:"channel"`
	ThreadID string    `json:"thread_id"`
	LinkedAt time.Time `json:"linked_at"`
}

// Store is the persistence boundary for channel state and session links.
//
// Writers follow a full-record read-modify-write discipline: load the
// channel, mutate in memory, save the whole record back. Two concurrent
// writers against the same channel can race and the later full-record
// write wins; that gap is accepted for this human-paced workflow, not
// solved here.
type Store interface {
	// LoadChannel returns the channel record, or (nil, nil) when no
	// state exists for that name.
	LoadChannel(name string) (*plan.Channel, error)
	SaveChannel(ch *plan.Channel) error
	// ListChannels returns every persisted channel record.
	ListChannels() ([]*plan.Channel, error)

	// LoadSession returns the session link for a working directory, or
	// (nil, nil) when the directory has none.
	LoadSession(dir string) (*SessionLink, error)
	SaveSession(dir string, link SessionLink) error
	ClearSession(dir string) error
}
