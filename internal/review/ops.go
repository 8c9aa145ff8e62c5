package review

import (
	"context"
	"sort"

	"github.com/planwg/planwg/internal/markup"
	"github.com/planwg/planwg/internal/plan"
)

// ReplyParams configures posting a plan revision.
type ReplyParams struct {
	Channel    string
	ThreadID   string
	SessionDir string
	PlanText   string
	Files      []string
}

// ReplyResult reports the posted revision.
type ReplyResult struct {
	ChannelName string
	ThreadID    string
	MessageID   string
	Version     int
}

// Reply posts the revised plan text as a threaded reply and records the
// new version. The revision is appended to state only after the post
// succeeds.
func (s *Service) Reply(ctx context.Context, p ReplyParams) (*ReplyResult, error) {
	target, err := s.ResolveTarget(p.Channel, p.ThreadID, p.SessionDir)
	if err != nil {
		return nil, err
	}
	ch, thread := target.Channel, target.Thread

	version := thread.Version + 1
	msgID, err := s.msgr.PostMessage(ctx, ch.ID, target.ThreadID, markup.PlanMessage(p.PlanText, version, ch.Name))
	if err != nil {
		return nil, err
	}

	thread.Revise(p.PlanText, msgID, s.now())
	thread.UpdateFiles(p.Files)
	if err := s.store.SaveChannel(ch); err != nil {
		return nil, err
	}
	return &ReplyResult{ChannelName: ch.Name, ThreadID: target.ThreadID, MessageID: msgID, Version: thread.Version}, nil
}

// ApproveParams configures an explicit approval.
type ApproveParams struct {
	Channel    string
	ThreadID   string
	SectionID  string
	SessionDir string
}

// ApproveResult reports what was approved.
type ApproveResult struct {
	ChannelName    string
	ThreadID       string
	Version        int
	SectionHeading string
	Warnings       []string
}

// Approve marks the target plan (or one section of it) approved and adds
// the approval reaction in the channel. The reaction is best-effort; a
// failure becomes a warning, not an error.
func (s *Service) Approve(ctx context.Context, p ApproveParams) (*ApproveResult, error) {
	target, err := s.ResolveTarget(p.Channel, p.ThreadID, p.SessionDir)
	if err != nil {
		return nil, err
	}
	ch, thread := target.Channel, target.Thread
	res := &ApproveResult{ChannelName: ch.Name, ThreadID: target.ThreadID, Version: thread.Version}

	if p.SectionID != "" {
		sec, err := thread.ApproveSection(p.SectionID, s.cfg.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.store.SaveChannel(ch); err != nil {
			return nil, err
		}
		res.SectionHeading = plan.HeadingText(sec.Heading)
		s.addApprovalReaction(ctx, ch.ID, p.SectionID, res)
		return res, nil
	}

	thread.Approve(s.cfg.UserID)
	if err := s.store.SaveChannel(ch); err != nil {
		return nil, err
	}
	// React on the newest revision so the checkmark sits on the text
	// that was actually approved.
	reactionID := thread.LatestReplyID
	if reactionID == "" {
		reactionID = target.ThreadID
	}
	s.addApprovalReaction(ctx, ch.ID, reactionID, res)
	return res, nil
}

func (s *Service) addApprovalReaction(ctx context.Context, channelID, messageID string, res *ApproveResult) {
	if s.msgr == nil {
		return
	}
	if err := s.msgr.AddReaction(ctx, channelID, messageID, ApprovalReaction); err != nil {
		res.Warnings = append(res.Warnings, "could not add reaction: "+err.Error())
	}
}

// Link binds the session directory to a channel thread.
func (s *Service) Link(channel, threadID, sessionDir string) (string, error) {
	name := ChannelName(channel)
	if err := s.linkSession(name, threadID, sessionDir); err != nil {
		return "", err
	}
	return name, nil
}

// CloseResult reports the archive outcome.
type CloseResult struct {
	ChannelName    string
	SessionCleared bool
	SessionNote    string
}

// Close archives the channel on Slack, flips local status to closed, and
// clears the session file when it points at this channel. Thread history
// is retained.
func (s *Service) Close(ctx context.Context, channel, sessionDir string) (*CloseResult, error) {
	name := ChannelName(channel)
	ch, err := s.store.LoadChannel(name)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, &plan.NotFoundError{Kind: "channel", ID: name}
	}

	if err := s.msgr.Archive(ctx, ch.ID); err != nil {
		return nil, err
	}
	ch.Status = plan.ChannelClosed
	if err := s.store.SaveChannel(ch); err != nil {
		return nil, err
	}

	res := &CloseResult{ChannelName: name}
	dir, err := s.sessionDir(sessionDir)
	if err != nil {
		return res, nil
	}
	link, err := s.store.LoadSession(dir)
	switch {
	case err != nil || link == nil:
		res.SessionNote = "no session file found for this directory"
	case link.Channel != name:
		res.SessionNote = "session file points to a different channel (" + link.Channel + "); not removed"
	default:
		if err := s.store.ClearSession(dir); err == nil {
			res.SessionCleared = true
		}
	}
	return res, nil
}

// StatusView is the channel overview the status command renders.
type StatusView struct {
	Channel   *plan.Channel
	Conflicts []plan.Conflict
}

// Status loads a channel overview with its conflict report.
func (s *Service) Status(channel string) (*StatusView, error) {
	name := ChannelName(channel)
	ch, err := s.store.LoadChannel(name)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, &plan.NotFoundError{Kind: "channel", ID: name}
	}
	return &StatusView{Channel: ch, Conflicts: plan.FindConflicts(ch)}, nil
}

// Sync resolves the thread the session (or explicit flags) points at,
// for feedback display. Purely local.
func (s *Service) Sync(channel, threadID, sessionDir string) (*Target, error) {
	return s.ResolveTarget(channel, threadID, sessionDir)
}

// List summarizes all locally known channels, most recent activity
// first. openOnly drops channels with no open plans.
func (s *Service) List(openOnly bool) ([]plan.Summary, error) {
	channels, err := s.store.ListChannels()
	if err != nil {
		return nil, err
	}
	var out []plan.Summary
	for _, ch := range channels {
		sum := plan.Summarize(ch)
		if openOnly && sum.Open == 0 {
			continue
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity > out[j].LastActivity
	})
	return out, nil
}
