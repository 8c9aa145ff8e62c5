package plan

import (
	"regexp"
	"strings"
)

// SectionContent is one (heading, body) pair produced by SplitSections.
// Heading is the raw Markdown heading line; it is empty for content that
// precedes the first heading.
type SectionContent struct {
	Heading string
	Body    string
}

var (
	sectionHeadingRe = regexp.MustCompile(`^#{1,3}\s+`)
	anyHeadingRe     = regexp.MustCompile(`^#{1,6}\s+(.*)`)
)

// SplitSections splits plan text into ordered (heading, body) pairs.
//
// A level 1–3 heading starts a new section; deeper headings are ordinary
// body content. Text before the first heading becomes a leading section
// with an empty heading. Bodies are stripped of surrounding blank lines.
// Text with no qualifying heading yields a single {"", text} pair, which
// callers use as the signal for single-message posting mode.
func SplitSections(text string) []SectionContent {
	var sections []SectionContent
	heading := ""
	var body []string

	flush := func() {
		if heading != "" || len(body) > 0 {
			sections = append(sections, SectionContent{
				Heading: heading,
				Body:    strings.TrimSpace(strings.Join(body, "\n")),
			})
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if sectionHeadingRe.MatchString(line) {
			flush()
			heading = line
			body = nil
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(sections) == 0 {
		return []SectionContent{{Heading: "", Body: text}}
	}
	return sections
}

// HeadingText strips the Markdown heading marker from a raw heading line.
// Lines that are not headings come back unchanged.
func HeadingText(heading string) string {
	if m := anyHeadingRe.FindStringSubmatch(heading); m != nil {
		return m[1]
	}
	return heading
}
