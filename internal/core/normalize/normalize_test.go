package normalize

import (
	"testing"
)

// Test table covers each stage and combined pipelines.
func TestCellText_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "claude-3-opus",
			out:  "claude-3-opus",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'g', 'p', 't', 0x80, ' ', '4', 'o'}),
			out:  "gpt 4o",
		},
		{
			name: "case preserved",
			in:   "Legacy GPT-35-Turbo",
			out:  "Legacy GPT-35-Turbo",
		},
		{
			name: "remove zero-widths",
			in:   "ti​tan‍-text", // ZERO WIDTH SPACE + ZERO WIDTH JOINER
			out:  "titan-text",
		},
		{
			name: "width fold fullwidth",
			in:   "ｇｐｔ－４ retires", // fullwidth letters
			out:  "gpt-4 retires",
		},
		{
			name: "nbsp to space",
			in:   "February 19, 2026",
			out:  "February 19, 2026",
		},
		{
			name: "collapse whitespace and newlines",
			in:   "  No sooner\tthan\n9/23/2025   ",
			out:  "No sooner than 9/23/2025",
		},
		{
			name: "control chars dropped",
			in:   "model\x00-\x01name",
			out:  "model-name",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := CellText(tc.in)
			if got != tc.out {
				t.Fatalf("CellText(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// Idempotence check: cleaning again should be identical
			got2 := CellText(got)
			if got2 != got {
				t.Fatalf("CellText not idempotent: %q -> %q", got, got2)
			}
		})
	}
}

func TestModelName_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"strips date suffix", "claude-3-5-sonnet-20240620", "claude-3-5-sonnet"},
		{"keeps version numbers", "claude-3-5-sonnet", "claude-3-5-sonnet"},
		{"keeps short digit runs", "gpt-4-0613", "gpt-4-0613"},
		{"keeps embedded dates", "model-20240620-beta", "model-20240620-beta"},
		{"strips stacked suffixes", "model-20240620-20240701", "model"},
		{"trims whitespace", "  claude-2.1  ", "claude-2.1"},
		{"empty unchanged", "", ""},
		{"punctuation kept", "anthropic.claude-v2:1", "anthropic.claude-v2:1"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := ModelName(tc.in)
			if got != tc.out {
				t.Fatalf("ModelName(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// Idempotence must hold for every input
			if again := ModelName(got); again != got {
				t.Fatalf("ModelName not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a b c"
	got := collapseSpaces(in)
	if got != want {
		t.Fatalf("collapseSpaces(%q) = %q, want %q", in, got, want)
	}
}
