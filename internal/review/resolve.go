package review

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/planwg/planwg/internal/plan"
)

// Target is a resolved (channel, thread) pair with its loaded state.
type Target struct {
	Channel  *plan.Channel
	ThreadID string
	Thread   *plan.Thread
}

// ResolveTarget locates the thread an operation should act on.
//
// With an explicit channel name, the thread is taken from --thread or
// inferred by operator ownership; owning several threads without a
// disambiguator is an AmbiguousError. Without a channel the session link
// of the working directory decides, and archived channels are rejected.
func (s *Service) ResolveTarget(channelName, threadID, sessionDir string) (*Target, error) {
	if strings.TrimSpace(channelName) != "" {
		return s.resolveByChannel(ChannelName(channelName), threadID)
	}
	return s.resolveBySession(sessionDir)
}

func (s *Service) resolveByChannel(name, threadID string) (*Target, error) {
	ch, err := s.store.LoadChannel(name)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, &plan.NotFoundError{Kind: "channel", ID: name}
	}

	if threadID != "" {
		t, ok := ch.Thread(threadID)
		if !ok {
			return nil, &plan.NotFoundError{Kind: "thread", ID: threadID}
		}
		return &Target{Channel: ch, ThreadID: threadID, Thread: t}, nil
	}

	owned := ch.OwnedThreads(s.cfg.UserID)
	switch len(owned) {
	case 0:
		return nil, &plan.NotFoundError{Kind: "thread", ID: "owned by " + s.cfg.UserID}
	case 1:
		t, _ := ch.Thread(owned[0])
		return &Target{Channel: ch, ThreadID: owned[0], Thread: t}, nil
	}

	candidates := make([]Candidate, 0, len(owned))
	for _, id := range owned {
		t, _ := ch.Thread(id)
		candidates = append(candidates, Candidate{ThreadID: id, Version: t.Version, Status: t.Status})
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, _ := strconv.ParseFloat(candidates[i].ThreadID, 64)
		b, _ := strconv.ParseFloat(candidates[j].ThreadID, 64)
		return a < b
	})
	return nil, &AmbiguousError{Channel: name, Owner: s.cfg.UserID, Candidates: candidates}
}

func (s *Service) resolveBySession(sessionDir string) (*Target, error) {
	dir, err := s.sessionDir(sessionDir)
	if err != nil {
		return nil, err
	}
	link, err := s.store.LoadSession(dir)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrNoSession
	}

	ch, err := s.store.LoadChannel(link.Channel)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, &plan.NotFoundError{Kind: "channel", ID: link.Channel}
	}
	if ch.Closed() {
		return nil, &ClosedChannelError{Channel: ch.Name}
	}

	t, ok := ch.Thread(link.ThreadID)
	if !ok {
		return nil, &plan.NotFoundError{Kind: "thread", ID: link.ThreadID}
	}
	return &Target{Channel: ch, ThreadID: link.ThreadID, Thread: t}, nil
}

var slackIDPattern = regexp.MustCompile(`^[UW][A-Z0-9]+$`)

// ResolveUserIDs maps usernames or display names to Slack user ids.
// Inputs that already look like user ids pass through unchanged. Names
// that resolve to nothing are reported back, not failed on.
func (s *Service) ResolveUserIDs(ctx context.Context, identifiers []string) (resolved, unresolved []string, err error) {
	var toResolve []string
	for _, id := range identifiers {
		if slackIDPattern.MatchString(id) {
			resolved = append(resolved, id)
		} else {
			toResolve = append(toResolve, id)
		}
	}
	if len(toResolve) == 0 {
		return resolved, nil, nil
	}

	nameToID := map[string]string{}
	cursor := ""
	for {
		members, next, err := s.msgr.Members(ctx, cursor)
		if err != nil {
			return nil, nil, err
		}
		for _, m := range members {
			if m.Deleted || m.IsBot {
				continue
			}
			for _, name := range []string{m.Name, m.RealName, m.DisplayName} {
				if name != "" {
					nameToID[strings.ToLower(name)] = m.ID
				}
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}

	for _, name := range toResolve {
		key := strings.ToLower(strings.TrimPrefix(name, "@"))
		if id, ok := nameToID[key]; ok {
			resolved = append(resolved, id)
		} else {
			unresolved = append(unresolved, name)
		}
	}
	return resolved, unresolved, nil
}
