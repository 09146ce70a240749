package models

import (
	"testing"

	"github.com/google/uuid"

	"faqdesk/internal/i18n"
)

// TestQuestionIsRoot verifies root vs nested classification.
func TestQuestionIsRoot(t *testing.T) {
	catID := uuid.New()
	parentID := uuid.New()

	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{name: "root question", q: Question{CategoryID: &catID}, want: true},
		{name: "nested question", q: Question{ParentID: &parentID}, want: false},
		{name: "no pointers at all", q: Question{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.IsRoot(); got != tt.want {
				t.Errorf("IsRoot() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestQuestionIsTerminal verifies the guided-flow terminal predicate:
// answer present and no children.
func TestQuestionIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		q    Question
		want bool
	}{
		{name: "answer and no children", q: Question{Answer: i18n.Text{"en": "yes"}}, want: true},
		{name: "answer but has children", q: Question{Answer: i18n.Text{"en": "yes"}, SubQuestions: []Question{{}}}, want: false},
		{name: "no answer no children", q: Question{}, want: false},
		{name: "whitespace answer only", q: Question{Answer: i18n.Text{"en": "  "}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestMatchTypeValid checks the predicate whitelist.
func TestMatchTypeValid(t *testing.T) {
	for _, m := range []MatchType{MatchContains, MatchEquals, MatchStartsWith, MatchEndsWith} {
		if !m.Valid() {
			t.Errorf("MatchType %q should be valid", m)
		}
	}
	if MatchType("regex").Valid() {
		t.Error(`MatchType "regex" should be invalid`)
	}
}
