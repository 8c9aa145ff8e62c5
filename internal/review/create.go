package review

import (
	"context"
	"fmt"

	"github.com/planwg/planwg/internal/markup"
	"github.com/planwg/planwg/internal/plan"
	"github.com/planwg/planwg/internal/store"
)

const onboardingDM = `Hi! You've been invited to collaborate on *#%[1]s* via *planwg*.

*Slack-only mode (no setup needed):*
Just reply in threads in the channel. Your feedback is automatically routed back to the plan owner's session.

*Full mode:*
Install planwg for bidirectional collaboration and run ` + "`planwg bootstrap --channel %[1]s`" + `.

*Jump straight in:*
Desktop app: %[2]s
Web: %[3]s

The channel is private and only visible to invited collaborators.`

// CreateParams configures channel creation.
type CreateParams struct {
	Channel       string
	Collaborators []string
	PlanText      string
	Files         []string
	SessionDir    string
}

// CreateResult reports what Create set up.
type CreateResult struct {
	ChannelID    string
	ChannelName  string
	ThreadID     string
	SectionCount int
	Invited      []string
	Warnings     []string
}

// Create makes a private wg_ channel, invites collaborators, posts the
// initial plan, initializes state, and links the session directory.
// Onboarding DMs are best-effort.
func (s *Service) Create(ctx context.Context, p CreateParams) (*CreateResult, error) {
	name := ChannelName(p.Channel)
	res := &CreateResult{ChannelName: name}

	channelID, err := s.msgr.CreateChannel(ctx, name)
	if err != nil {
		return nil, err
	}
	res.ChannelID = channelID

	collaboratorIDs, unresolved, err := s.ResolveUserIDs(ctx, p.Collaborators)
	if err != nil {
		return nil, err
	}
	for _, u := range unresolved {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not resolve user %q; skipping", u))
	}

	invite := dedupe(append([]string{s.cfg.UserID}, collaboratorIDs...))
	if err := s.msgr.Invite(ctx, channelID, invite); err != nil {
		return nil, err
	}
	res.Invited = invite

	// Team id only feeds the onboarding deep links; losing it is not fatal.
	deepLink, webLink := "", ""
	if ident, err := s.msgr.Identity(ctx); err == nil && ident.TeamID != "" {
		deepLink = fmt.Sprintf("slack://channel?team=%s&id=%s", ident.TeamID, channelID)
		webLink = fmt.Sprintf("https://app.slack.com/client/%s/%s", ident.TeamID, channelID)
	}

	anchorID, thread, err := s.postPlan(ctx, channelID, name, p.PlanText, 1, p.Files)
	if err != nil {
		return nil, err
	}
	res.ThreadID = anchorID
	res.SectionCount = len(thread.Sections)

	ch := plan.NewChannel(channelID, name, s.cfg.UserID, p.Collaborators)
	ch.UpsertThread(anchorID, thread)
	if err := s.store.SaveChannel(ch); err != nil {
		return nil, err
	}
	if err := s.linkSession(name, anchorID, p.SessionDir); err != nil {
		return nil, err
	}

	for _, uid := range collaboratorIDs {
		dmID, err := s.msgr.OpenDM(ctx, uid)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not DM %s: %v", uid, err))
			continue
		}
		text := fmt.Sprintf(onboardingDM, name, deepLink, webLink)
		if _, err := s.msgr.PostMessage(ctx, dmID, "", text); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not DM %s: %v", uid, err))
		}
	}

	return res, nil
}

// PostPlanParams configures posting a new plan thread to an existing
// channel.
type PostPlanParams struct {
	Channel    string
	PlanText   string
	Files      []string
	SessionDir string
}

// PostPlanResult reports the new thread.
type PostPlanResult struct {
	ChannelName  string
	ThreadID     string
	SectionCount int
}

// PostPlan posts a fresh plan thread into an existing channel and links
// the session directory to it.
func (s *Service) PostPlan(ctx context.Context, p PostPlanParams) (*PostPlanResult, error) {
	name := ChannelName(p.Channel)
	ch, err := s.store.LoadChannel(name)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, &plan.NotFoundError{Kind: "channel", ID: name}
	}

	anchorID, thread, err := s.postPlan(ctx, ch.ID, name, p.PlanText, 1, p.Files)
	if err != nil {
		return nil, err
	}
	ch.UpsertThread(anchorID, thread)
	if err := s.store.SaveChannel(ch); err != nil {
		return nil, err
	}
	if err := s.linkSession(name, anchorID, p.SessionDir); err != nil {
		return nil, err
	}
	return &PostPlanResult{ChannelName: name, ThreadID: anchorID, SectionCount: len(thread.Sections)}, nil
}

// postPlan posts plan text to a channel and builds the thread record.
// Plans with more than one h1–h3 section go out as an anchor overview
// message plus one top-level message per section; otherwise a single
// message carries the whole plan.
func (s *Service) postPlan(ctx context.Context, channelID, channelName, text string, version int, files []string) (string, *plan.Thread, error) {
	sections := plan.SplitSections(text)
	at := s.now()

	if len(sections) > 1 {
		anchorID, err := s.msgr.PostMessage(ctx, channelID, "", markup.AnchorMessage(version, channelName, sections))
		if err != nil {
			return "", nil, err
		}
		thread := plan.NewThread(s.cfg.UserID, anchorID, text, files, at)
		for i, sec := range sections {
			msgID, err := s.msgr.PostMessage(ctx, channelID, "", markup.SectionMessage(sec.Heading, sec.Body))
			if err != nil {
				return "", nil, err
			}
			thread.SetSectionMessageID(i, msgID)
		}
		return anchorID, thread, nil
	}

	msgID, err := s.msgr.PostMessage(ctx, channelID, "", markup.PlanMessage(text, version, channelName))
	if err != nil {
		return "", nil, err
	}
	thread := plan.NewThread(s.cfg.UserID, msgID, text, files, at)
	return msgID, thread, nil
}

func (s *Service) linkSession(channelName, threadID, sessionDir string) error {
	dir, err := s.sessionDir(sessionDir)
	if err != nil {
		return err
	}
	return s.store.SaveSession(dir, store.SessionLink{
		Channel:  channelName,
		ThreadID: threadID,
		LinkedAt: s.now(),
	})
}

func dedupe(ids []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
