package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEngine_SeedIsAllAdded(t *testing.T) {
	idx := NewIndex()
	eng := NewEngine(idx)

	seed := map[string]EntryInfo{
		"a.txt": {Name: "a.txt", Path: "a.txt", Exists: true},
		"b.txt": {Name: "b.txt", Path: "b.txt", Exists: true},
	}
	changes := eng.Seed(seed)

	if len(changes.Added) != 2 || len(changes.Changed) != 0 || len(changes.Deleted) != 0 {
		t.Fatalf("unexpected initial batch: %+v", changes)
	}
	if idx.Len() != 2 {
		t.Fatalf("expected index to hold 2 entries, got %d", idx.Len())
	}
}

func TestEngine_Apply_AddedChangedDeleted(t *testing.T) {
	idx := NewIndex()
	eng := NewEngine(idx)

	eng.Seed(map[string]EntryInfo{
		"card.ts": {Name: "card.ts", Path: "card.ts", Exists: true, Size: 10},
	})

	changes := eng.Apply([]Observation{
		{Path: "new.ts", Exists: true, Info: EntryInfo{Name: "new.ts", Path: "new.ts", Exists: true}},
		{Path: "card.ts", Exists: true, Info: EntryInfo{Name: "card.ts", Path: "card.ts", Exists: true, Size: 20}},
	})

	if diffOut := cmp.Diff(map[string]EntryInfo{"new.ts": {Name: "new.ts", Path: "new.ts", Exists: true}}, changes.Added); diffOut != "" {
		t.Errorf("Added mismatch (-want +got):\n%s", diffOut)
	}
	if len(changes.Changed) != 1 {
		t.Fatalf("expected 1 changed entry, got %+v", changes.Changed)
	}
	if len(changes.Deleted) != 0 {
		t.Fatalf("expected no deletions, got %+v", changes.Deleted)
	}

	del := eng.Apply([]Observation{
		{Path: "card.ts", Exists: false},
	})
	if len(del.Deleted) != 1 {
		t.Fatalf("expected 1 deletion, got %+v", del.Deleted)
	}
	if len(del.Added) != 0 || len(del.Changed) != 0 {
		t.Fatalf("unexpected non-empty sets: %+v", del)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 remaining entry (new.ts), got %d", idx.Len())
	}
}

func TestEngine_Apply_AbsentStaysAbsent(t *testing.T) {
	idx := NewIndex()
	eng := NewEngine(idx)

	changes := eng.Apply([]Observation{
		{Path: "ghost.ts", Exists: false},
	})
	if !changes.Empty() {
		t.Fatalf("expected empty batch for absent->absent, got %+v", changes)
	}
}

func TestEngine_Apply_DuplicateCollapsesToDelete(t *testing.T) {
	idx := NewIndex()
	eng := NewEngine(idx)

	changes := eng.Apply([]Observation{
		{Path: "flicker.ts", Exists: true, Info: EntryInfo{Path: "flicker.ts", Exists: true}},
		{Path: "flicker.ts", Exists: false},
	})
	// Net effect for a previously-absent path: created then deleted
	// within the same batch collapses to nothing, per spec §4.3.
	if !changes.Empty() {
		t.Fatalf("expected duplicate create+delete to collapse to nothing, got %+v", changes)
	}

	eng.Seed(map[string]EntryInfo{"present.ts": {Path: "present.ts", Exists: true}})
	changes2 := eng.Apply([]Observation{
		{Path: "present.ts", Exists: true, Info: EntryInfo{Path: "present.ts", Exists: true}},
		{Path: "present.ts", Exists: false},
	})
	if len(changes2.Deleted) != 1 {
		t.Fatalf("expected duplicate observations to collapse to a single delete, got %+v", changes2)
	}
}

func TestFileChanges_PairwiseDisjoint(t *testing.T) {
	idx := NewIndex()
	eng := NewEngine(idx)
	eng.Seed(map[string]EntryInfo{"x": {Path: "x", Exists: true}})

	changes := eng.Apply([]Observation{
		{Path: "x", Exists: true, Info: EntryInfo{Path: "x", Exists: true}},
		{Path: "y", Exists: true, Info: EntryInfo{Path: "y", Exists: true}},
		{Path: "z", Exists: false},
	})
	for p := range changes.Added {
		if _, ok := changes.Changed[p]; ok {
			t.Errorf("%s present in both Added and Changed", p)
		}
		if _, ok := changes.Deleted[p]; ok {
			t.Errorf("%s present in both Added and Deleted", p)
		}
	}
}
