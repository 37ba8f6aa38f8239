package tag

import "testing"

func TestTag_Less(t *testing.T) {
	a := Tag{Index: 1}
	b := Tag{Index: 2}
	if !a.Less(b) {
		t.Error("Tag with smaller Index should be Less")
	}
	if b.Less(a) {
		t.Error("Tag with larger Index should not be Less")
	}
	if a.Less(a) {
		t.Error("a Tag should not be Less than itself")
	}
}
