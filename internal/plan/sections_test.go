package plan

import (
	"reflect"
	"testing"
)

func TestSplitSectionsNoHeading(t *testing.T) {
	got := SplitSections("plain text")
	want := []SectionContent{{Heading: "", Body: "plain text"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSectionsEmpty(t *testing.T) {
	got := SplitSections("")
	want := []SectionContent{{Heading: "", Body: ""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSectionsThreeHeadings(t *testing.T) {
	got := SplitSections("# A\n\naa\n\n## B\n\nbb\n\n### C\n\ncc")
	want := []SectionContent{
		{Heading: "# A", Body: "aa"},
		{Heading: "## B", Body: "bb"},
		{Heading: "### C", Body: "cc"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSectionsPreamble(t *testing.T) {
	got := SplitSections("intro line\n\n# First\nbody")
	want := []SectionContent{
		{Heading: "", Body: "intro line"},
		{Heading: "# First", Body: "body"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSplitSectionsDeepHeadingIsBody(t *testing.T) {
	got := SplitSections("# A\n#### deep\nrest")
	want := []SectionContent{
		{Heading: "# A", Body: "#### deep\nrest"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestHeadingText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"# Title", "Title"},
		{"### Deep one", "Deep one"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := HeadingText(tc.in); got != tc.want {
			t.Errorf("HeadingText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
