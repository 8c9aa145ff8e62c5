package markup

import (
	"strings"
	"testing"

	"github.com/planwg/planwg/internal/plan"
)

func TestToMrkdwn(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"heading", "## Rollout", "*Rollout*"},
		{"deep heading", "###### tiny", "*tiny*"},
		{"bold stars", "a **bold** word", "a *bold* word"},
		{"bold underscores", "a __bold__ word", "a *bold* word"},
		{"italic", "an *italic* word", "an _italic_ word"},
		{"bold then italic", "**b** and *i*", "*b* and _i_"},
		{"bullet dash", "- item", "• item"},
		{"bullet star indented", "  * item", "  • item"},
		{"link", "[docs](https://example.com)", "<https://example.com|docs>"},
		{"hrule", "---", "───────────────────"},
		{"inline code kept", "run `a * b` now", "run `a * b` now"},
		{"plain", "nothing here", "nothing here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToMrkdwn(tc.in); got != tc.want {
				t.Fatalf("ToMrkdwn(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestToMrkdwnCodeBlockVerbatim(t *testing.T) {
	in := "before\n```\n# not a heading\n**not bold**\n```\nafter **bold**"
	got := ToMrkdwn(in)
	if !strings.Contains(got, "# not a heading") || !strings.Contains(got, "**not bold**") {
		t.Fatalf("code block rewritten: %q", got)
	}
	if !strings.Contains(got, "after *bold*") {
		t.Fatalf("text after code block not rewritten: %q", got)
	}
}

func TestPlanMessage(t *testing.T) {
	got := PlanMessage("# Title\nbody", 2, "wg_demo")
	if !strings.HasPrefix(got, "*Plan v2* · `#wg_demo`\n\n") {
		t.Fatalf("bad header: %q", got)
	}
	if !strings.Contains(got, "*Title*") {
		t.Fatalf("heading not converted: %q", got)
	}
}

func TestAnchorMessage(t *testing.T) {
	sections := []plan.SectionContent{
		{Heading: "# Alpha", Body: "a"},
		{Heading: "", Body: "preamble"},
	}
	got := AnchorMessage(1, "wg_demo", sections)
	if !strings.Contains(got, "  1. Alpha") {
		t.Fatalf("missing section title: %q", got)
	}
	if !strings.Contains(got, "  2. Section 2") {
		t.Fatalf("missing fallback title: %q", got)
	}
}

func TestSectionMessage(t *testing.T) {
	if got := SectionMessage("## Plan", "body"); got != "*Plan*\n\nbody" {
		t.Fatalf("got %q", got)
	}
	if got := SectionMessage("", "body only"); got != "body only" {
		t.Fatalf("got %q", got)
	}
}
