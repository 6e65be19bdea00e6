package commandchest

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type spawnedText struct {
	world   string
	pos     mgl64.Vec3
	text    string
	small   bool
	removed bool
}

func (s *spawnedText) Remove() { s.removed = true }

// fakeSpawner records marker spawns and can be made to fail.
type fakeSpawner struct {
	spawned []*spawnedText
	fail    bool
}

func (f *fakeSpawner) SpawnText(world string, pos mgl64.Vec3, text string, small bool) (TextHandle, error) {
	if f.fail {
		return nil, errors.New("spawn failed")
	}
	s := &spawnedText{world: world, pos: pos, text: text, small: small}
	f.spawned = append(f.spawned, s)
	return s, nil
}

// fakeRichSpawner layers the rich capability over fakeSpawner.
type fakeRichSpawner struct {
	fakeSpawner
	probeErr error
	richErr  error
	rich     []*spawnedText
}

func (f *fakeRichSpawner) ProbeRich() error { return f.probeErr }

func (f *fakeRichSpawner) SpawnRichText(id, world string, anchor mgl64.Vec3, lines []string) (TextHandle, error) {
	if f.richErr != nil {
		return nil, f.richErr
	}
	s := &spawnedText{world: world, pos: anchor, text: id}
	f.rich = append(f.rich, s)
	return s, nil
}

func labelledChest(lines ...string) *Chest {
	c := NewChest(uuid.New(), testPosition())
	c.NameLines = lines
	return c
}

func TestMarkerLayout(t *testing.T) {
	spawner := &fakeSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	c := labelledChest("Top", "Middle", "Bottom")
	h.Create(c)

	if len(spawner.spawned) != 3 {
		t.Fatalf("spawned %d markers, want 3", len(spawner.spawned))
	}
	anchor := anchorFor(c.Pos)
	// Line 0 renders topmost; each following line steps down.
	for i, s := range spawner.spawned {
		wantY := anchor.Y() + float64(2-i)*hologramLineStep
		if s.pos.Y() != wantY {
			t.Errorf("line %d at y=%v, want %v", i, s.pos.Y(), wantY)
		}
		if s.pos.X() != anchor.X() || s.pos.Z() != anchor.Z() {
			t.Errorf("line %d moved horizontally: %v", i, s.pos)
		}
		if s.world != "world" {
			t.Errorf("line %d in world %q", i, s.world)
		}
	}
	if !spawner.spawned[0].small {
		t.Errorf("topmost line of a multi-line label should be small")
	}
	if spawner.spawned[1].small || spawner.spawned[2].small {
		t.Errorf("only the topmost line should be small")
	}
	if !h.Tracked(c.Pos) {
		t.Fatalf("position should be tracked after Create")
	}
}

func TestSingleLineNotSmall(t *testing.T) {
	spawner := &fakeSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	h.Create(labelledChest("Only"))
	if len(spawner.spawned) != 1 {
		t.Fatalf("spawned %d markers, want 1", len(spawner.spawned))
	}
	if spawner.spawned[0].small {
		t.Fatalf("a single-line label should not be small")
	}
}

func TestHiddenOrEmptyLabelSkipped(t *testing.T) {
	spawner := &fakeSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	h.Create(labelledChest()) // no lines
	hidden := labelledChest("Secret")
	hidden.NameVisible = false
	h.Create(hidden)

	if len(spawner.spawned) != 0 {
		t.Fatalf("hidden or empty labels must not spawn, got %d", len(spawner.spawned))
	}
	if h.Tracked(hidden.Pos) {
		t.Fatalf("nothing should be tracked")
	}
}

func TestUpdateReplacesMarkers(t *testing.T) {
	spawner := &fakeSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	c := labelledChest("One", "Two")
	h.Create(c)
	first := append([]*spawnedText(nil), spawner.spawned...)

	c.NameLines = []string{"One"}
	h.Update(c)

	for i, s := range first {
		if !s.removed {
			t.Errorf("old marker %d not removed on update", i)
		}
	}
	if len(spawner.spawned) != 3 {
		t.Fatalf("expected one new marker after the initial two, got %d total", len(spawner.spawned))
	}
}

func TestRemove(t *testing.T) {
	spawner := &fakeSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	c := labelledChest("Bye")
	h.Create(c)
	h.Remove(c.Pos)

	if !spawner.spawned[0].removed {
		t.Fatalf("marker not removed")
	}
	if h.Tracked(c.Pos) {
		t.Fatalf("position still tracked after Remove")
	}
	h.Remove(c.Pos) // absent, must not panic
}

func TestRemoveAll(t *testing.T) {
	spawner := &fakeRichSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	a := labelledChest("A")
	b := NewChest(uuid.New(), Position{World: "world", Pos: cube.Pos{11, 64, -3}})
	b.NameLines = []string{"B"}
	h.Create(a)
	h.Create(b)

	h.RemoveAll()
	if h.Tracked(a.Pos) || h.Tracked(b.Pos) {
		t.Fatalf("positions still tracked after RemoveAll")
	}
	for i, s := range spawner.rich {
		if !s.removed {
			t.Errorf("rich label %d not removed", i)
		}
	}
}

func TestRichBackendUsedAfterProbe(t *testing.T) {
	spawner := &fakeRichSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	c := labelledChest("Line 1", "Line 2")
	h.Create(c)

	if len(spawner.rich) != 1 {
		t.Fatalf("rich spawns = %d, want 1", len(spawner.rich))
	}
	if len(spawner.spawned) != 0 {
		t.Fatalf("markers spawned despite rich backend: %d", len(spawner.spawned))
	}
	if want := "commandchest_" + c.ID.String(); spawner.rich[0].text != want {
		t.Fatalf("rich label id = %q, want %q", spawner.rich[0].text, want)
	}
}

func TestProbeFailureDowngrades(t *testing.T) {
	spawner := &fakeRichSpawner{probeErr: errors.New("integration missing")}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	h.Create(labelledChest("Hello"))
	if len(spawner.rich) != 0 {
		t.Fatalf("rich backend used despite failed probe")
	}
	if len(spawner.spawned) != 1 {
		t.Fatalf("markers = %d, want 1", len(spawner.spawned))
	}
}

func TestRichSpawnFailureFallsBack(t *testing.T) {
	spawner := &fakeRichSpawner{richErr: errors.New("session gone")}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	c := labelledChest("A", "B")
	h.Create(c)
	if len(spawner.spawned) != 2 {
		t.Fatalf("expected marker fallback, got %d markers", len(spawner.spawned))
	}
	if !h.Tracked(c.Pos) {
		t.Fatalf("fallback markers should be tracked")
	}
}

func TestLoadForWorld(t *testing.T) {
	spawner := &fakeSpawner{}
	h := NewHolograms(spawner, slog.New(slog.DiscardHandler))

	inWorld := labelledChest("Here")
	elsewhere := NewChest(uuid.New(), Position{World: "nether", Pos: testPosition().Pos})
	elsewhere.NameLines = []string{"There"}

	h.LoadForWorld("world", []*Chest{inWorld, elsewhere})
	if len(spawner.spawned) != 1 {
		t.Fatalf("spawned %d markers, want only the matching world's", len(spawner.spawned))
	}
	if spawner.spawned[0].text != "Here" {
		t.Fatalf("wrong chest rendered: %q", spawner.spawned[0].text)
	}
}
