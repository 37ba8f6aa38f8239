package ptree

import "testing"

func TestOffsets_Empty(t *testing.T) {
	tree := New()
	if got := tree.Offsets(Nil); len(got) != 0 {
		t.Errorf("Offsets(Nil) = %v, want empty", got)
	}
}

func TestOffsets_Chain(t *testing.T) {
	tree := New()
	r1 := tree.Append(Nil, 3)
	r2 := tree.Append(r1, 7)
	r3 := tree.Append(r2, 12)

	got := tree.Offsets(r3)
	want := []int{3, 7, 12}
	if len(got) != len(want) {
		t.Fatalf("Offsets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Offsets()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestOffsets_BranchingFromSharedPrefix(t *testing.T) {
	tree := New()
	shared := tree.Append(Nil, 1)
	left := tree.Append(shared, 2)
	right := tree.Append(shared, 99)

	gotLeft := tree.Offsets(left)
	gotRight := tree.Offsets(right)

	if len(gotLeft) != 2 || gotLeft[0] != 1 || gotLeft[1] != 2 {
		t.Errorf("Offsets(left) = %v, want [1 2]", gotLeft)
	}
	if len(gotRight) != 2 || gotRight[0] != 1 || gotRight[1] != 99 {
		t.Errorf("Offsets(right) = %v, want [1 99]", gotRight)
	}
}

func TestReset(t *testing.T) {
	tree := New()
	r := tree.Append(Nil, 5)
	tree.Append(r, 6)

	tree.Reset()

	r2 := tree.Append(Nil, 42)
	got := tree.Offsets(r2)
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("Offsets() after Reset = %v, want [42]", got)
	}
}
