package flow

import (
	"testing"

	"github.com/google/uuid"

	"faqdesk/internal/models"
)

func flowFixture() ([]models.Question, uuid.UUID, uuid.UUID, uuid.UUID) {
	q1, q2, q3 := uuid.New(), uuid.New(), uuid.New()
	questions := []models.Question{{ID: q1}, {ID: q2}, {ID: q3}}
	return questions, q1, q2, q3
}

// TestFirstMatchWins: condition order takes precedence, not predicate
// strength — "contains urgent" beats a later exact match.
func TestFirstMatchWins(t *testing.T) {
	questions, q1, _, _ := flowFixture()
	qa, qb := uuid.New(), uuid.New()
	questions = append(questions, models.Question{ID: qa}, models.Question{ID: qb})

	e := New(questions, []models.FollowUp{{
		ID:         uuid.New(),
		QuestionID: q1,
		Conditions: []models.Condition{
			{Type: models.MatchContains, Value: "urgent", TargetQuestionID: qa},
			{Type: models.MatchEquals, Value: "help", TargetQuestionID: qb},
		},
	}})

	got := e.Next(q1, "I need help urgently")
	if got == nil || *got != qa {
		t.Errorf("Next = %v, want first match %s", got, qa)
	}
}

// TestPredicates covers all four match types, case-insensitively.
func TestPredicates(t *testing.T) {
	questions, q1, _, _ := flowFixture()
	target := uuid.New()
	questions = append(questions, models.Question{ID: target})

	mk := func(mt models.MatchType, value string) *Engine {
		return New(questions, []models.FollowUp{{
			QuestionID: q1,
			Conditions: []models.Condition{{Type: mt, Value: value, TargetQuestionID: target}}},
		})
	}

	tests := []struct {
		name    string
		mt      models.MatchType
		value   string
		reply   string
		matched bool
	}{
		{name: "contains hit", mt: models.MatchContains, value: "Card", reply: "my CARD is lost", matched: true},
		{name: "contains miss", mt: models.MatchContains, value: "card", reply: "cash only", matched: false},
		{name: "equals exact", mt: models.MatchEquals, value: "Help", reply: "help", matched: true},
		{name: "equals trims reply", mt: models.MatchEquals, value: "help", reply: "  HELP  ", matched: true},
		{name: "equals not substring", mt: models.MatchEquals, value: "help", reply: "help me", matched: false},
		{name: "startsWith", mt: models.MatchStartsWith, value: "where", reply: "Where is my order", matched: true},
		{name: "endsWith", mt: models.MatchEndsWith, value: "order", reply: "where is my ORDER", matched: true},
		{name: "unknown type", mt: models.MatchType("regex"), value: ".*", reply: "anything", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mk(tt.mt, tt.value).Next(q1, tt.reply)
			if tt.matched {
				if got == nil || *got != target {
					t.Errorf("Next = %v, want %s", got, target)
				}
			} else if got != nil && *got == target {
				t.Errorf("Next matched %s, want sequential advance", target)
			}
		})
	}
}

// TestSequentialAdvance: no conditions (or no match) moves to the next
// question in original order; the last question terminates.
func TestSequentialAdvance(t *testing.T) {
	questions, q1, q2, q3 := flowFixture()
	e := New(questions, nil)

	if got := e.Next(q1, "whatever"); got == nil || *got != q2 {
		t.Errorf("Next(q1) = %v, want %s", got, q2)
	}
	if got := e.Next(q2, ""); got == nil || *got != q3 {
		t.Errorf("Next(q2) = %v, want %s", got, q3)
	}
	if got := e.Next(q3, "done"); got != nil {
		t.Errorf("Next(last) = %v, want nil (flow terminates)", got)
	}
}

// TestNoMatchFallsThrough: conditions that all miss behave like no
// conditions at all.
func TestNoMatchFallsThrough(t *testing.T) {
	questions, q1, q2, _ := flowFixture()
	e := New(questions, []models.FollowUp{{
		QuestionID: q1,
		Conditions: []models.Condition{
			{Type: models.MatchEquals, Value: "exact", TargetQuestionID: uuid.New()},
		},
	}})

	if got := e.Next(q1, "not exact at all"); got == nil || *got != q2 {
		t.Errorf("Next = %v, want sequential %s", got, q2)
	}
}

// TestUnknownQuestionTerminates: an id outside the flat list ends the flow.
func TestUnknownQuestionTerminates(t *testing.T) {
	questions, _, _, _ := flowFixture()
	e := New(questions, nil)
	if got := e.Next(uuid.New(), "hi"); got != nil {
		t.Errorf("Next(unknown) = %v, want nil", got)
	}
}
