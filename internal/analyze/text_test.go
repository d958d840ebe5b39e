package analyze

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize("  Scope:\n\tbeams   and\r\n columns  ")
	if got != "Scope: beams and columns" {
		t.Errorf("Normalize() = %q", got)
	}
	if Normalize(" \n\t ") != "" {
		t.Error("expected whitespace-only text to normalize to empty")
	}
}

func TestSentenceCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"No terminator", 1},
		{"One. Two! Three? ", 3},
		{"Trailing dots... and more.", 2},
	}
	for _, tt := range tests {
		if got := SentenceCount(tt.text); got != tt.want {
			t.Errorf("SentenceCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestLabeledValue(t *testing.T) {
	labels := []string{"client name", "client", "customer"}
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"colon", "Client Name: Acme Steel\nTimeline: 6 weeks", "Acme Steel", true},
		{"equals stops at comma", "client = Harbor Works, Inc.", "Harbor Works", true},
		{"dash stops at semicolon", "Customer - Delta Fabricators; contact via email", "Delta Fabricators", true},
		{"extra spacing in label", "CLIENT   NAME :  Northline", "Northline", true},
		{"no separator", "Prepared for our client by the team", "", false},
		{"label inside word", "Subclient: Shadow Corp", "", false},
		{"indented", "  Client: Apex", "Apex", true},
		{"after sentence break", "Scope is attached. Client: Apex", "Apex", true},
		{"mid sentence", "Detail from the client-supplied IFC model", "", false},
		{"mid sentence with colon", "Coordinate with the client: weekly calls", "", false},
		{"hyphenated compound", "Customer-furnished anchor bolt layout", "", false},
		{"unspaced dash value", "Customer -Delta", "Delta", true},
		{"empty value", "Client:\nScope: beams", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LabeledValue(tt.text, labels...)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("LabeledValue() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLabeledValueJoinedLines(t *testing.T) {
	// PDF extraction can drop line breaks entirely.
	text := "Proposal for steel detailing. Client: Apex Builders Timeline: 6 weeks"
	got, ok := LabeledValue(text, "client")
	if !ok {
		t.Fatal("expected label after a sentence break to match")
	}
	if !strings.HasPrefix(got, "Apex Builders") {
		t.Errorf("LabeledValue() = %q, want prefix Apex Builders", got)
	}

	if got, ok := LabeledValue("Proposal for steel detailing Client: Apex Builders", "client"); ok {
		t.Errorf("LabeledValue() = %q, want no match mid-sentence", got)
	}
}

func TestLabeledValueNoLabels(t *testing.T) {
	if _, ok := LabeledValue("Client: Acme"); ok {
		t.Error("expected no match without labels")
	}
}

func TestLabelScore(t *testing.T) {
	tests := []struct {
		name   string
		label  Label
		text   string
		want   int
		wantOK bool
	}{
		{"plain", complexityLabel, "Complexity: 4", 4, true},
		{"out of five", complexityLabel, "complexity = 3/5", 3, true},
		{"dash separator", complexityLabel, "Complexity - 2", 2, true},
		{"out of range", complexityLabel, "Complexity: 7", 0, false},
		{"zero", complexityLabel, "Complexity: 0", 0, false},
		{"words", complexityLabel, "Complexity: high", 0, false},
		{"revision risk", riskLabel, "Revision risk = 3", 3, true},
		{"risk", riskLabel, "Risk: 5", 5, true},
		{"risk level is not a label", riskLabel, "Risk level: 4", 0, false},
		{"mid sentence", complexityLabel, "Assume low complexity - 4 levels of framing", 0, false},
		{"after sentence break", riskLabel, "Drawings attached. Risk: 2", 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.label.Score(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Score(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
