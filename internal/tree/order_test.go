package tree

import (
	"testing"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"faqdesk/internal/models"
)

func group(orders ...int) []models.Question {
	out := make([]models.Question, len(orders))
	for i, o := range orders {
		out[i] = models.Question{ID: uuid.New(), SortOrder: o}
	}
	return out
}

// TestInsertFirstOrder: new items go to the front of the group.
func TestInsertFirstOrder(t *testing.T) {
	tests := []struct {
		name     string
		siblings []models.Question
		want     int
	}{
		{name: "empty group", siblings: nil, want: 0},
		{name: "single sibling at zero", siblings: group(0), want: -1},
		{name: "min minus one", siblings: group(3, 1, 7), want: 0},
		{name: "negative orders keep descending", siblings: group(-2, 0), want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertFirstOrder(tt.siblings); got != tt.want {
				t.Errorf("InsertFirstOrder = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestInsertFirstStrictlyLess: property — the assigned order is strictly
// below every existing sibling's order.
func TestInsertFirstStrictlyLess(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := rapid.SliceOfN(rapid.IntRange(-1000, 1000), 1, 50).Draw(t, "orders")
		siblings := group(orders...)
		assigned := InsertFirstOrder(siblings)
		for _, s := range siblings {
			if assigned >= s.SortOrder {
				t.Fatalf("assigned %d not strictly below sibling order %d", assigned, s.SortOrder)
			}
		}
	})
}

// TestMoveSplice verifies the spliced sequence and dense renumbering.
func TestMoveSplice(t *testing.T) {
	siblings := group(0, 1, 2, 3)
	got := Move(siblings, 3, 0)
	if len(got) != 4 {
		t.Fatalf("got %d assignments, want 4", len(got))
	}

	wantIDs := []uuid.UUID{siblings[3].ID, siblings[0].ID, siblings[1].ID, siblings[2].ID}
	for i, a := range got {
		if a.ID != wantIDs[i] {
			t.Errorf("position %d = %s, want %s", i, a.ID, wantIDs[i])
		}
		if a.SortOrder != i {
			t.Errorf("position %d order = %d, want %d", i, a.SortOrder, i)
		}
	}
}

// TestMoveBadIndex: an out-of-range source index yields nil; the target
// index is clamped into the group.
func TestMoveBadIndex(t *testing.T) {
	siblings := group(0, 1, 2)
	if got := Move(siblings, 5, 0); got != nil {
		t.Errorf("Move with from=5 = %v, want nil", got)
	}
	if got := Move(siblings, -1, 0); got != nil {
		t.Errorf("Move with from=-1 = %v, want nil", got)
	}
	got := Move(siblings, 0, 99)
	if got == nil || got[len(got)-1].ID != siblings[0].ID {
		t.Errorf("Move with clamped to should land item last: %v", got)
	}
}

// TestMoveDenseRenumbering: property — after any move, orders are exactly
// 0..n-1 with no duplicates, every id survives, and the moved item sits
// at the target index.
func TestMoveDenseRenumbering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		orders := make([]int, n)
		for i := range orders {
			// Sorted but sparse and possibly negative, as after many
			// insert-first operations.
			if i == 0 {
				orders[i] = rapid.IntRange(-100, 0).Draw(t, "base")
			} else {
				orders[i] = orders[i-1] + rapid.IntRange(0, 10).Draw(t, "gap")
			}
		}
		siblings := group(orders...)
		from := rapid.IntRange(0, n-1).Draw(t, "from")
		to := rapid.IntRange(0, n-1).Draw(t, "to")

		got := Move(siblings, from, to)
		if len(got) != n {
			t.Fatalf("got %d assignments, want %d", len(got), n)
		}

		seen := make(map[uuid.UUID]bool, n)
		for i, a := range got {
			if a.SortOrder != i {
				t.Fatalf("assignment %d has order %d, want dense %d", i, a.SortOrder, i)
			}
			seen[a.ID] = true
		}
		if len(seen) != n {
			t.Fatalf("duplicate ids in assignments")
		}
		if got[to].ID != siblings[from].ID {
			t.Fatalf("moved item is at %s, want index %d", got[to].ID, to)
		}
	})
}

// TestSwapAdjacent covers both directions and the boundary no-ops.
func TestSwapAdjacent(t *testing.T) {
	siblings := group(10, 20, 30)

	tests := []struct {
		name string
		id   uuid.UUID
		dir  Direction
		want []OrderAssignment // nil means no-op
	}{
		{
			name: "middle up",
			id:   siblings[1].ID,
			dir:  DirectionUp,
			want: []OrderAssignment{{ID: siblings[1].ID, SortOrder: 10}, {ID: siblings[0].ID, SortOrder: 20}},
		},
		{
			name: "middle down",
			id:   siblings[1].ID,
			dir:  DirectionDown,
			want: []OrderAssignment{{ID: siblings[1].ID, SortOrder: 30}, {ID: siblings[2].ID, SortOrder: 20}},
		},
		{name: "first up is no-op", id: siblings[0].ID, dir: DirectionUp, want: nil},
		{name: "last down is no-op", id: siblings[2].ID, dir: DirectionDown, want: nil},
		{name: "unknown id", id: uuid.New(), dir: DirectionUp, want: nil},
		{name: "bad direction", id: siblings[1].ID, dir: Direction("left"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SwapAdjacent(siblings, tt.id, tt.dir)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("assignment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
