package ival

import "testing"

func assertDisjointAndSorted(t *testing.T, entries []Entry[int]) {
	t.Helper()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Hi >= entries[i].Lo {
			t.Errorf("entries not disjoint/sorted: %v then %v", entries[i-1], entries[i])
		}
	}
}

func TestInsert_StaysDisjointAndSorted(t *testing.T) {
	tr := New[int]()
	tr.Insert(10, 20, 1, func(a, b int) int { return b })
	tr.Insert(30, 40, 2, func(a, b int) int { return b })
	tr.Insert(15, 35, 3, func(a, b int) int { return a + b })
	tr.Insert(0, 5, 4, func(a, b int) int { return b })

	assertDisjointAndSorted(t, tr.Entries())
}

func TestInsert_LookupReturnsMergedValue(t *testing.T) {
	tr := New[int]()
	tr.Insert(0, 10, 1, func(a, b int) int { return b })
	tr.Insert(5, 15, 2, func(a, b int) int { return a * 10 + b })

	for p := 5; p <= 10; p++ {
		v, ok := tr.Lookup(p)
		if !ok {
			t.Fatalf("Lookup(%d) not found", p)
		}
		if v != 12 {
			t.Errorf("Lookup(%d) = %d, want 12 (merged)", p, v)
		}
	}
	v, ok := tr.Lookup(2)
	if !ok || v != 1 {
		t.Errorf("Lookup(2) = %d,%v want 1,true", v, ok)
	}
	v, ok = tr.Lookup(14)
	if !ok || v != 2 {
		t.Errorf("Lookup(14) = %d,%v want 2,true", v, ok)
	}
	if _, ok := tr.Lookup(100); ok {
		t.Error("Lookup(100) should not find anything")
	}
}

func TestInsert_PanicsOnInvertedRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected a panic for lo > hi")
		}
	}()
	New[int]().Insert(10, 5, 1, func(a, b int) int { return b })
}

func TestComplement_SelfInverseUpToCoalescing(t *testing.T) {
	original := []Entry[struct{}]{
		{Lo: 0, Hi: 4, Value: struct{}{}},
		{Lo: 10, Hi: 14, Value: struct{}{}},
	}
	once := Complement(original, 0, 20)
	twice := Complement(once, 0, 20)

	if len(twice) != len(original) {
		t.Fatalf("Complement(Complement(x)) has %d entries, want %d: %v", len(twice), len(original), twice)
	}
	for i := range original {
		if twice[i].Lo != original[i].Lo || twice[i].Hi != original[i].Hi {
			t.Errorf("entry %d: got [%d,%d], want [%d,%d]", i, twice[i].Lo, twice[i].Hi, original[i].Lo, original[i].Hi)
		}
	}
}

func TestComplement_CoversGapsOnly(t *testing.T) {
	intervals := []Entry[struct{}]{{Lo: 5, Hi: 10, Value: struct{}{}}}
	got := Complement(intervals, 0, 15)

	want := []Entry[struct{}]{
		{Lo: 0, Hi: 4, Value: struct{}{}},
		{Lo: 11, Hi: 15, Value: struct{}{}},
	}
	if len(got) != len(want) {
		t.Fatalf("Complement() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Lo != want[i].Lo || got[i].Hi != want[i].Hi {
			t.Errorf("entry %d: got [%d,%d], want [%d,%d]", i, got[i].Lo, got[i].Hi, want[i].Lo, want[i].Hi)
		}
	}
}
