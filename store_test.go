package commandchest

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

func TestFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}

	player := uuid.New()
	c := NewChest(uuid.New(), Position{World: "world", Pos: cube.Pos{1, 70, -8}})
	c.NameLines = []string{"Daily", "Reward"}
	c.NameVisible = false
	c.Command = "kit daily"
	c.SetCooldown(3600)
	c.Method = MethodShift
	c.RequiredItem = &ItemRequirement{Kind: "minecraft:paper", Count: 2}
	c.LastUsed[player] = 123_456

	if err := backend.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	chests, err := backend.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(chests) != 1 {
		t.Fatalf("LoadAll returned %d chests, want 1", len(chests))
	}

	got := chests[0]
	if got.ID != c.ID {
		t.Errorf("ID = %v, want %v", got.ID, c.ID)
	}
	if got.Pos != c.Pos {
		t.Errorf("Pos = %+v, want %+v", got.Pos, c.Pos)
	}
	if len(got.NameLines) != 2 || got.NameLines[0] != "Daily" || got.NameLines[1] != "Reward" {
		t.Errorf("NameLines = %v", got.NameLines)
	}
	if got.NameVisible {
		t.Errorf("NameVisible = true, want false")
	}
	if got.Command != "kit daily" {
		t.Errorf("Command = %q", got.Command)
	}
	if got.Cooldown() != 3600 {
		t.Errorf("Cooldown = %d, want 3600", got.Cooldown())
	}
	if got.Method != MethodShift {
		t.Errorf("Method = %v, want MethodShift", got.Method)
	}
	if got.RequiredItem == nil || got.RequiredItem.Kind != "minecraft:paper" || got.RequiredItem.Count != 2 {
		t.Errorf("RequiredItem = %+v", got.RequiredItem)
	}
	if got.LastActivation(player) != 123_456 {
		t.Errorf("LastActivation = %d, want 123456", got.LastActivation(player))
	}
}

func TestFileBackendDelete(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	c := NewChest(uuid.New(), testPosition())
	if err := backend.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := backend.Delete(c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := backend.Delete(c.ID); err != nil {
		t.Fatalf("deleting an absent document should not error: %v", err)
	}
	chests, err := backend.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(chests) != 0 {
		t.Fatalf("LoadAll returned %d chests after delete, want 0", len(chests))
	}
}

func TestUnmarshalLenient(t *testing.T) {
	id := uuid.New()
	doc := `uuid: ` + id.String() + `
location:
  world: world
  x: 1
  y: 2
  z: 3
command: heal
cooldown: -7
activation-method: DOUBLE
required-item:
  kind: minecraft:gone
  count: 0
last-activations:
  not-a-uuid: 100
  ` + uuid.New().String() + `: 200
`
	rejectAll := func(string) bool { return false }
	c, err := unmarshalChest([]byte(doc), rejectAll)
	if err != nil {
		t.Fatalf("unmarshalChest: %v", err)
	}
	if c.Method != MethodRight {
		t.Errorf("unknown method should fall back to RIGHT, got %v", c.Method)
	}
	if c.Cooldown() != 0 {
		t.Errorf("negative cooldown should clamp to 0, got %d", c.Cooldown())
	}
	if c.RequiredItem != nil {
		t.Errorf("rejected item kind should be dropped, got %+v", c.RequiredItem)
	}
	if len(c.LastUsed) != 1 {
		t.Errorf("invalid player keys should be skipped individually, got %d entries", len(c.LastUsed))
	}
}

func TestUnmarshalItemCountClamped(t *testing.T) {
	doc := `uuid: ` + uuid.New().String() + `
location: {world: world, x: 0, y: 0, z: 0}
required-item: {kind: minecraft:paper, count: 0}
`
	c, err := unmarshalChest([]byte(doc), nil)
	if err != nil {
		t.Fatalf("unmarshalChest: %v", err)
	}
	if c.RequiredItem == nil || c.RequiredItem.Count != 1 {
		t.Fatalf("RequiredItem = %+v, want count clamped to 1", c.RequiredItem)
	}
}

func TestUnmarshalInvalidID(t *testing.T) {
	if _, err := unmarshalChest([]byte("uuid: nope"), nil); err == nil {
		t.Fatalf("invalid uuid should be fatal")
	}
}

func TestLoadAllSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir, nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	good := NewChest(uuid.New(), testPosition())
	if err := backend.Save(good); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("uuid: nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	chests, err := backend.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(chests) != 1 || chests[0].ID != good.ID {
		t.Fatalf("LoadAll should skip the broken file and keep the rest, got %d chests", len(chests))
	}
}

func TestStoreRegistry(t *testing.T) {
	store := testStore(t)
	c := configuredChest()

	if store.Has(c.Pos) {
		t.Fatalf("empty store should not report the position")
	}
	store.Add(c)
	if got, ok := store.Get(c.Pos); !ok || got != c {
		t.Fatalf("Get after Add = %v, %v", got, ok)
	}
	if len(store.All()) != 1 {
		t.Fatalf("All = %d entries, want 1", len(store.All()))
	}

	// Add at the same position overwrites.
	replacement := NewChest(uuid.New(), c.Pos)
	store.Add(replacement)
	if got, _ := store.Get(c.Pos); got != replacement {
		t.Fatalf("Add at an occupied position should overwrite")
	}

	store.Remove(c.Pos)
	if store.Has(c.Pos) {
		t.Fatalf("position still present after Remove")
	}
	store.Remove(c.Pos) // absent, must not panic
}

func TestStoreLoadReplacesContents(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir(), nil, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	persisted := configuredChest()
	if err := backend.Save(persisted); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store := NewStore(backend, slog.New(slog.DiscardHandler))
	stale := NewChest(uuid.New(), Position{World: "other", Pos: cube.Pos{9, 9, 9}})
	store.chests[stale.Pos] = stale

	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if store.Has(stale.Pos) {
		t.Fatalf("Load should replace prior contents")
	}
	got, ok := store.Get(persisted.Pos)
	if !ok || got.ID != persisted.ID {
		t.Fatalf("Load did not surface the persisted chest")
	}
}
