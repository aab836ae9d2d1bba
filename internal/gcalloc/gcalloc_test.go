package gcalloc

import "testing"

func TestNewAtomicAndFree(t *testing.T) {
	h := NewHeap()
	hdl, err := h.NewAtomic(64)
	if err != nil {
		t.Fatal(err)
	}
	if len(hdl.Bytes) != 64 {
		t.Fatalf("got %d bytes, want 64", len(hdl.Bytes))
	}
	if err := h.Free(hdl); err != nil {
		t.Fatal(err)
	}
}

func TestRoots(t *testing.T) {
	h := NewHeap()
	hdl, err := h.NewPointer(16)
	if err != nil {
		t.Fatal(err)
	}
	h.AddRoot(hdl)
	if len(h.Roots()) != 1 {
		t.Fatalf("expected 1 root, got %d", len(h.Roots()))
	}
	h.RemoveRoot(hdl)
	if len(h.Roots()) != 0 {
		t.Fatalf("expected 0 roots after RemoveRoot, got %d", len(h.Roots()))
	}
}

func TestFinalizerRunsOnFree(t *testing.T) {
	h := NewHeap()
	hdl, err := h.NewAtomic(8)
	if err != nil {
		t.Fatal(err)
	}
	ran := false
	h.SetFinalizer(hdl, func() { ran = true })
	if err := h.Free(hdl); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("expected finalizer to run on Free")
	}
}
