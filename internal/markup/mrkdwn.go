// Package markup renders Markdown plan text as Slack mrkdwn and formats
// the messages the review commands post. Pure text transforms, no state.
package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/planwg/planwg/internal/plan"
)

var (
	headingRe    = regexp.MustCompile(`^#{1,6}\s+(.*)`)
	hruleRe      = regexp.MustCompile(`^[-*_]{3,}\s*$`)
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	bulletRe     = regexp.MustCompile(`^(\s*)[-*]\s+`)
	boldStarRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__(.+?)__`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
	boldStashRe  = regexp.MustCompile("\x00(.+?)\x00")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// ToMrkdwn converts standard Markdown to Slack mrkdwn: headings become
// bold lines, bullets become •, bold/italic/link syntax is rewritten, and
// horizontal rules become a thin separator. Fenced code blocks and inline
// code spans pass through verbatim.
func ToMrkdwn(text string) string {
	var out []string
	inCodeBlock := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			out = append(out, line)
			continue
		}
		if inCodeBlock {
			out = append(out, line)
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			out = append(out, "*"+m[1]+"*")
			continue
		}
		if hruleRe.MatchString(line) {
			out = append(out, "───────────────────")
			continue
		}

		// Stash inline code spans so their contents are never rewritten.
		var spans []string
		line = inlineCodeRe.ReplaceAllStringFunc(line, func(s string) string {
			spans = append(spans, s)
			return fmt.Sprintf("\x01CODE%d\x01", len(spans)-1)
		})

		line = bulletRe.ReplaceAllString(line, "$1• ")

		// Bold markers go through a placeholder so the italic pass below
		// cannot pick them up.
		line = boldStarRe.ReplaceAllString(line, "\x00$1\x00")
		line = boldUnderRe.ReplaceAllString(line, "\x00$1\x00")
		line = italicRe.ReplaceAllString(line, "_${1}_")
		line = boldStashRe.ReplaceAllString(line, "*$1*")

		line = linkRe.ReplaceAllString(line, "<$2|$1>")

		for i, span := range spans {
			line = strings.Replace(line, fmt.Sprintf("\x01CODE%d\x01", i), span, 1)
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// PlanMessage formats a single-message plan post.
func PlanMessage(planText string, version int, channelName string) string {
	return fmt.Sprintf("*Plan v%d* · `#%s`\n\n%s", version, channelName, ToMrkdwn(planText))
}

// SectionMessage formats one plan section as its own top-level message.
func SectionMessage(heading, body string) string {
	var parts []string
	if heading != "" {
		parts = append(parts, ToMrkdwn(heading))
	}
	if body != "" {
		parts = append(parts, ToMrkdwn(body))
	}
	return strings.Join(parts, "\n\n")
}

// AnchorMessage formats the overview message posted ahead of the
// per-section messages of a multi-section plan.
func AnchorMessage(version int, channelName string, sections []plan.SectionContent) string {
	lines := []string{
		fmt.Sprintf("*Plan v%d* · `#%s`", version, channelName),
		"",
		"*Sections:*",
	}
	for i, sec := range sections {
		title := plan.HeadingText(sec.Heading)
		if title == "" {
			title = fmt.Sprintf("Section %d", i+1)
		}
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, title))
	}
	lines = append(lines, "", "_Reply in each section below with your feedback._")
	return strings.Join(lines, "\n")
}
