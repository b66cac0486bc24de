package extract

import (
	"reflect"
	"testing"
)

func TestRelatedIDs_ExtendedSuffix(t *testing.T) {
	content := "This depends on Idea B and extends Idea C (Extended) for reporting."

	got := RelatedIDs("A", content)
	want := []string{"B", "C (Extended)"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelatedIDs() = %v, want %v", got, want)
	}
}

func TestRelatedIDs_ExcludesSelf(t *testing.T) {
	content := "# Idea E.1 — Title\nIdea E.1 builds on Idea E and Idea E.2."

	got := RelatedIDs("E.1", content)
	for _, id := range got {
		if id == "E.1" {
			t.Fatalf("Expected self-reference to be dropped, got %v", got)
		}
	}

	want := []string{"E", "E.2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelatedIDs() = %v, want %v", got, want)
	}
}

func TestReferences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single letter", "see Idea A.", []string{"A"}},
		{"two letters", "Idea RS is related", []string{"RS"}},
		{"digit suffix", "Idea L2 and Idea E.1", []string{"L2", "E.1"}},
		{"extended without space", "Idea C(Extended)", []string{"C (Extended)"}},
		{"deduplicated", "Idea A, Idea A, Idea A", []string{"A"}},
		{"lowercase idea ignored", "idea A", nil},
		{"word not id", "Idea Alpha", nil},
		{"three letters not id", "Idea ABC", nil},
		{"multiple spaces", "Idea   D", []string{"D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := References(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("References(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Idea A — Bug Tracker", "Bug Tracker"},
		{"Idea E.1 – Extended Scanner", "Extended Scanner"},
		{"Idea L2 - Leaderboard", "Leaderboard"},
		{"idea rs -- Rust Service", "Rust Service"},
		{"Idea A —", "Idea A —"},
		{"Plain Title", "Plain Title"},
		{"Idea A: Not A Dash", "Idea A: Not A Dash"},
		{"Idea A — Idea B — Nested", "Nested"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := CleanTitle(tt.raw); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"Idea A — Bug Tracker",
		"Idea A — Idea B — Nested",
		"Idea A —",
		"Idea A — Idea B —",
		"  Spaced Title  ",
		"Idea X - Idea Y",
		"",
	}

	for _, in := range inputs {
		once := CleanTitle(in)
		twice := CleanTitle(once)
		if once != twice {
			t.Errorf("CleanTitle not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
