package landscape

import (
	"testing"

	"github.com/google/uuid"
)

func TestMarkStaleIdempotent(t *testing.T) {
	p := newPatch(0, 0, 0, nil)
	if !p.MarkStale() {
		t.Fatal("first MarkStale() = false, want true")
	}
	if p.MarkStale() {
		t.Error("second MarkStale() = true, want false")
	}
	if p.State() != PatchStale {
		t.Errorf("State() = %v, want stale", p.State())
	}
}

func TestMarkStaleWhileRebuilding(t *testing.T) {
	p := newPatch(0, 0, 0, nil)
	p.MarkStale()
	p.beginRebuild()
	if p.MarkStale() {
		t.Error("MarkStale() during rebuild = true, want false")
	}
	if !p.finishRebuild() {
		t.Error("finishRebuild() = false, want requeue after edit during rebuild")
	}
	if p.State() != PatchStale {
		t.Errorf("State() = %v, want stale", p.State())
	}

	p.beginRebuild()
	if p.finishRebuild() {
		t.Error("finishRebuild() = true without edits")
	}
	if p.State() != PatchClean {
		t.Errorf("State() = %v, want clean", p.State())
	}
}

func TestPatchLayerSet(t *testing.T) {
	p := newPatch(0, 0, 0, nil)
	a, b := uuid.New(), uuid.New()
	if !p.AddLayer(a) || !p.AddLayer(b) {
		t.Fatal("AddLayer() = false for new layers")
	}
	if p.AddLayer(a) {
		t.Error("AddLayer() = true for a duplicate")
	}
	if got := p.Layers(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Layers() = %v, want [%v %v]", got, a, b)
	}
	if !p.RemoveLayer(a) || p.RemoveLayer(a) {
		t.Error("RemoveLayer() should succeed once")
	}
	if p.HasLayer(a) || !p.HasLayer(b) {
		t.Error("layer set wrong after removal")
	}
	if p.State() != PatchClean {
		t.Error("changing layers must not change state")
	}
}

func TestHoleMask(t *testing.T) {
	p := newPatch(0, 0, 0, nil)
	if p.holeMask() != nil {
		t.Error("empty patch should have no hole mask")
	}
	p.layerHoles = []bool{true, false, false}
	p.volumeHoles = []bool{false, false, true}
	got := p.holeMask()
	want := []bool{true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("holeMask()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if p.HoleCount() != 2 {
		t.Errorf("HoleCount() = %d, want 2", p.HoleCount())
	}
}
