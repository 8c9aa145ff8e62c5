// Package transport wraps the Slack API behind the capability interface
// the review core consumes. The core never imports the Slack SDK.
package transport

import (
	"context"
	"fmt"
)

// Message is one channel message as the transport returns it.
type Message struct {
	ID       string
	Author   string
	Text     string
	ThreadID string
}

// Member is one workspace member, as needed for name resolution.
type Member struct {
	ID          string
	Name        string
	RealName    string
	DisplayName string
	IsBot       bool
	Deleted     bool
}

// Identity describes the authenticated caller.
type Identity struct {
	UserID string
	TeamID string
	Team   string
}

// Messenger is the messaging capability. Paginated listings take an
// opaque cursor; an empty returned cursor signals the end of results.
// Calls are synchronous; implementations may retry internally but do not
// deduplicate re-posts across whole operations.
type Messenger interface {
	// PostMessage posts a message; threadID empty posts top-level.
	// Returns the new message id.
	PostMessage(ctx context.Context, channelID, threadID, text string) (string, error)
	AddReaction(ctx context.Context, channelID, messageID, name string) error

	History(ctx context.Context, channelID, cursor string) ([]Message, string, error)
	// Replies lists a thread's replies, excluding the parent message.
	Replies(ctx context.Context, channelID, threadID, cursor string) ([]Message, string, error)
	Members(ctx context.Context, cursor string) ([]Member, string, error)

	CreateChannel(ctx context.Context, name string) (string, error)
	Invite(ctx context.Context, channelID string, users []string) error
	Archive(ctx context.Context, channelID string) error
	ResolveChannelID(ctx context.Context, name string) (string, error)
	ResolveChannelName(ctx context.Context, channelID string) (string, error)
	OpenDM(ctx context.Context, userID string) (string, error)
	Identity(ctx context.Context) (Identity, error)
}

// Error wraps a messaging transport failure with the API operation that
// produced it. Terminal for the current operation once surfaced.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("slack %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
