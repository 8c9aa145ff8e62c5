package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

const pageLimit = 200

// SlackMessenger implements Messenger against the Slack Web API.
type SlackMessenger struct {
	api *slack.Client
}

// NewSlackMessenger builds a messenger from a bot token. The app token is
// optional; it is only needed when the same client feeds a socket-mode
// listener.
func NewSlackMessenger(botToken, appToken string) (*SlackMessenger, error) {
	if strings.TrimSpace(botToken) == "" {
		return nil, errors.New("missing slack bot token")
	}
	opts := []slack.Option{
		slack.OptionHTTPClient(&http.Client{Timeout: 20 * time.Second}),
	}
	if strings.TrimSpace(appToken) != "" {
		opts = append(opts, slack.OptionAppLevelToken(strings.TrimSpace(appToken)))
	}
	return &SlackMessenger{api: slack.New(strings.TrimSpace(botToken), opts...)}, nil
}

// Client exposes the underlying SDK client for the socket-mode listener.
func (m *SlackMessenger) Client() *slack.Client { return m.api }

// retryDecision classifies an SDK error: rate limits sleep and retry,
// transient connection faults retry once, everything else surfaces.
func retryDecision(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	var rle *slack.RateLimitedError
	if errors.As(err, &rle) && rle != nil {
		if rle.RetryAfter > 0 {
			time.Sleep(rle.RetryAfter)
		}
		return true, err
	}
	return transientErr(err), err
}

func (m *SlackMessenger) PostMessage(ctx context.Context, channelID, threadID, text string) (string, error) {
	var messageID string
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
		if ts := strings.TrimSpace(threadID); ts != "" {
			opts = append(opts, slack.MsgOptionTS(ts))
		}
		_, ts, err := m.api.PostMessageContext(ctx, channelID, opts...)
		if err == nil {
			messageID = ts
			return false, nil
		}
		return retryDecision(err)
	})
	if err != nil {
		return "", &Error{Op: "chat.postMessage", Err: err}
	}
	return messageID, nil
}

func (m *SlackMessenger) AddReaction(ctx context.Context, channelID, messageID, name string) error {
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		err := m.api.AddReactionContext(ctx, name, slack.ItemRef{Channel: channelID, Timestamp: messageID})
		return retryDecision(err)
	})
	if err != nil {
		return &Error{Op: "reactions.add", Err: err}
	}
	return nil
}

func (m *SlackMessenger) History(ctx context.Context, channelID, cursor string) ([]Message, string, error) {
	var (
		resp *slack.GetConversationHistoryResponse
		err  error
	)
	err = withRetry(retryAttempts, retryDelay, func() (bool, error) {
		resp, err = m.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     pageLimit,
		})
		return retryDecision(err)
	})
	if err != nil {
		return nil, "", &Error{Op: "conversations.history", Err: err}
	}
	out := make([]Message, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		out = append(out, fromSlackMessage(msg))
	}
	return out, strings.TrimSpace(resp.ResponseMetaData.NextCursor), nil
}

func (m *SlackMessenger) Replies(ctx context.Context, channelID, threadID, cursor string) ([]Message, string, error) {
	var (
		msgs []slack.Message
		next string
		err  error
	)
	err = withRetry(retryAttempts, retryDelay, func() (bool, error) {
		msgs, _, next, err = m.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID: channelID,
			Timestamp: threadID,
			Cursor:    cursor,
			Limit:     pageLimit,
		})
		return retryDecision(err)
	})
	if err != nil {
		return nil, "", &Error{Op: "conversations.replies", Err: err}
	}
	out := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		// The parent rides along with its replies; drop it.
		if msg.Timestamp == threadID {
			continue
		}
		out = append(out, fromSlackMessage(msg))
	}
	return out, strings.TrimSpace(next), nil
}

func (m *SlackMessenger) Members(ctx context.Context, cursor string) ([]Member, string, error) {
	var users []slack.User
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		var err error
		users, err = m.api.GetUsersContext(ctx, slack.GetUsersOptionLimit(pageLimit))
		return retryDecision(err)
	})
	if err != nil {
		return nil, "", &Error{Op: "users.list", Err: err}
	}
	out := make([]Member, 0, len(users))
	for _, u := range users {
		out = append(out, Member{
			ID:          u.ID,
			Name:        u.Name,
			RealName:    u.RealName,
			DisplayName: u.Profile.DisplayName,
			IsBot:       u.IsBot,
			Deleted:     u.Deleted,
		})
	}
	// The SDK drains users.list pagination itself.
	return out, "", nil
}

func (m *SlackMessenger) CreateChannel(ctx context.Context, name string) (string, error) {
	var ch *slack.Channel
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		var err error
		ch, err = m.api.CreateConversationContext(ctx, slack.CreateConversationParams{
			ChannelName: name,
			IsPrivate:   true,
		})
		return retryDecision(err)
	})
	if err != nil {
		return "", &Error{Op: "conversations.create", Err: err}
	}
	return ch.ID, nil
}

func (m *SlackMessenger) Invite(ctx context.Context, channelID string, users []string) error {
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		_, err := m.api.InviteUsersToConversationContext(ctx, channelID, users...)
		return retryDecision(err)
	})
	if err != nil {
		return &Error{Op: "conversations.invite", Err: err}
	}
	return nil
}

func (m *SlackMessenger) Archive(ctx context.Context, channelID string) error {
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		return retryDecision(m.api.ArchiveConversationContext(ctx, channelID))
	})
	if err != nil {
		return &Error{Op: "conversations.archive", Err: err}
	}
	return nil
}

func (m *SlackMessenger) ResolveChannelID(ctx context.Context, name string) (string, error) {
	cursor := ""
	for {
		var (
			chs  []slack.Channel
			next string
		)
		err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
			var err error
			chs, next, err = m.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
				Cursor: cursor,
				Limit:  pageLimit,
				Types:  []string{"private_channel"},
			})
			return retryDecision(err)
		})
		if err != nil {
			return "", &Error{Op: "conversations.list", Err: err}
		}
		for _, ch := range chs {
			if ch.Name == name {
				return ch.ID, nil
			}
		}
		cursor = strings.TrimSpace(next)
		if cursor == "" {
			return "", nil
		}
	}
}

func (m *SlackMessenger) ResolveChannelName(ctx context.Context, channelID string) (string, error) {
	var ch *slack.Channel
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		var err error
		ch, err = m.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
			ChannelID: channelID,
		})
		return retryDecision(err)
	})
	if err != nil {
		return "", &Error{Op: "conversations.info", Err: err}
	}
	return ch.Name, nil
}

func (m *SlackMessenger) OpenDM(ctx context.Context, userID string) (string, error) {
	var ch *slack.Channel
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		var err error
		ch, _, _, err = m.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
			Users: []string{userID},
		})
		return retryDecision(err)
	})
	if err != nil {
		return "", &Error{Op: "conversations.open", Err: err}
	}
	return ch.ID, nil
}

func (m *SlackMessenger) Identity(ctx context.Context) (Identity, error) {
	var auth *slack.AuthTestResponse
	err := withRetry(retryAttempts, retryDelay, func() (bool, error) {
		var err error
		auth, err = m.api.AuthTestContext(ctx)
		return retryDecision(err)
	})
	if err != nil {
		return Identity{}, &Error{Op: "auth.test", Err: err}
	}
	return Identity{UserID: auth.UserID, TeamID: auth.TeamID, Team: auth.Team}, nil
}

func fromSlackMessage(msg slack.Message) Message {
	return Message{
		ID:       msg.Timestamp,
		Author:   msg.User,
		Text:     msg.Text,
		ThreadID: msg.ThreadTimestamp,
	}
}
