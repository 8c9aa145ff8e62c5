package review

import (
	"context"
	"fmt"

	"github.com/planwg/planwg/internal/plan"
)

// BootstrapResult reports what reconciliation added.
type BootstrapResult struct {
	ChannelName    string
	ChannelID      string
	ThreadsCreated int
	FeedbackAdded  int
}

// Bootstrap populates local state from channel history, for a
// collaborator joining an existing working group. The merge is additive:
// thread ids already known locally are skipped whole, so re-running
// bootstrap never clobbers locally accumulated state.
func (s *Service) Bootstrap(ctx context.Context, channel string) (*BootstrapResult, error) {
	name := ChannelName(channel)

	channelID, err := s.msgr.ResolveChannelID(ctx, name)
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		return nil, fmt.Errorf("channel #%s not found (not a member or doesn't exist)", name)
	}

	ch, err := s.store.LoadChannel(name)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		ch = plan.NewChannel(channelID, name, "", nil)
	}

	var topLevel []plan.HistoryMessage
	cursor := ""
	for {
		msgs, next, err := s.msgr.History(ctx, channelID, cursor)
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			if m.ThreadID != "" && m.ThreadID != m.ID {
				continue
			}
			topLevel = append(topLevel, plan.HistoryMessage{ID: m.ID, Author: m.Author, Text: m.Text})
		}
		if next == "" {
			break
		}
		cursor = next
	}

	// Replies are only fetched for threads the reconciler will actually
	// create; known threads are skipped whole either way.
	for i := range topLevel {
		if _, known := ch.Thread(topLevel[i].ID); known {
			continue
		}
		replies, err := s.fetchReplies(ctx, channelID, topLevel[i].ID)
		if err != nil {
			return nil, err
		}
		topLevel[i].Replies = replies
	}

	created, added := plan.Reconcile(ch, topLevel, s.now())
	if err := s.store.SaveChannel(ch); err != nil {
		return nil, err
	}
	return &BootstrapResult{
		ChannelName:    name,
		ChannelID:      channelID,
		ThreadsCreated: created,
		FeedbackAdded:  added,
	}, nil
}

func (s *Service) fetchReplies(ctx context.Context, channelID, threadID string) ([]plan.ReplyMessage, error) {
	var out []plan.ReplyMessage
	cursor := ""
	for {
		msgs, next, err := s.msgr.Replies(ctx, channelID, threadID, cursor)
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			out = append(out, plan.ReplyMessage{ID: m.ID, Author: m.Author, Text: m.Text})
		}
		if next == "" {
			return out, nil
		}
		cursor = next
	}
}
