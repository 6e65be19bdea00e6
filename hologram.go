package commandchest

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// TextHandle is a spawned piece of floating text that can be removed again.
type TextHandle interface {
	Remove()
}

// TextSpawner spawns one floating text marker. It is the minimum surface the
// fallback backend needs; every hologram integration must provide it. small
// requests a reduced scale and may be ignored by spawners that cannot scale.
type TextSpawner interface {
	SpawnText(world string, pos mgl64.Vec3, text string, small bool) (TextHandle, error)
}

// RichTextSpawner is the optional capability of a spawner that can render one
// multi-line label as a single unit. ProbeRich verifies the integration is
// actually reachable; presence of the interface alone is not enough.
type RichTextSpawner interface {
	TextSpawner
	ProbeRich() error
	SpawnRichText(id string, world string, anchor mgl64.Vec3, lines []string) (TextHandle, error)
}

const (
	// hologramYOffset lifts the label anchor above the chest block.
	hologramYOffset = 1.0
	// hologramLineStep is the vertical distance between marker lines.
	hologramLineStep = 0.3
)

// Holograms renders chest labels through one of two strategies: a rich
// multi-line backend when the spawner proves capable at startup, or stacked
// single-line markers otherwise. A position is tracked by at most one of the
// two backends at a time.
type Holograms struct {
	mu      sync.Mutex
	spawner TextSpawner
	rich    RichTextSpawner // nil after a failed probe, never retried
	richOut map[Position]TextHandle
	markers map[Position][]TextHandle
	log     *slog.Logger
}

// NewHolograms probes the spawner's rich capability once and returns the
// renderer. A spawner that does not implement RichTextSpawner, or whose probe
// fails, downgrades to the marker strategy for the process lifetime.
func NewHolograms(spawner TextSpawner, log *slog.Logger) *Holograms {
	if log == nil {
		log = slog.Default()
	}
	h := &Holograms{
		spawner: spawner,
		richOut: map[Position]TextHandle{},
		markers: map[Position][]TextHandle{},
		log:     log,
	}
	if rich, ok := spawner.(RichTextSpawner); ok {
		if err := rich.ProbeRich(); err != nil {
			log.Info("commandchest: rich hologram probe failed, using marker entities", "error", err)
		} else {
			h.rich = rich
			log.Info("commandchest: rich hologram backend detected")
		}
	} else {
		log.Info("commandchest: no rich hologram backend, using marker entities")
	}
	return h
}

// Create renders the chest's label. It is a no-op when the label is hidden or
// empty, and idempotent otherwise: any prior label at the position is removed
// first.
func (h *Holograms) Create(c *Chest) {
	if !c.NameVisible || len(c.NameLines) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(c.Pos)

	anchor := anchorFor(c.Pos)
	if h.rich != nil {
		handle, err := h.rich.SpawnRichText("commandchest_"+c.ID.String(), c.Pos.World, anchor, c.NameLines)
		if err == nil {
			h.richOut[c.Pos] = handle
			return
		}
		// Hot path of every label refresh: fall back silently.
	}

	n := len(c.NameLines)
	handles := make([]TextHandle, 0, n)
	for i, line := range c.NameLines {
		pos := anchor.Add(mgl64.Vec3{0, float64(n-1-i) * hologramLineStep, 0})
		small := i == 0 && n > 1
		handle, err := h.spawner.SpawnText(c.Pos.World, pos, line, small)
		if err != nil {
			h.log.Warn("commandchest: failed to spawn hologram line", "chest", c.ID, "error", err)
			continue
		}
		handles = append(handles, handle)
	}
	if len(handles) > 0 {
		h.markers[c.Pos] = handles
	}
}

// Update re-renders the chest's label from its current state.
func (h *Holograms) Update(c *Chest) {
	h.Remove(c.Pos)
	h.Create(c)
}

// Remove removes whichever backend's label is tracked at the position. Safe
// to call when none exists.
func (h *Holograms) Remove(pos Position) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(pos)
}

// remove expects h.mu held.
func (h *Holograms) remove(pos Position) {
	if handle, ok := h.richOut[pos]; ok {
		delete(h.richOut, pos)
		handle.Remove()
	}
	if handles, ok := h.markers[pos]; ok {
		delete(h.markers, pos)
		for _, handle := range handles {
			handle.Remove()
		}
	}
}

// RemoveAll removes every tracked label of both kinds.
func (h *Holograms) RemoveAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for pos := range h.richOut {
		h.remove(pos)
	}
	for pos := range h.markers {
		h.remove(pos)
	}
}

// LoadForWorld re-creates labels for every chest in the named world, for when
// a world becomes available after labels were skipped at startup.
func (h *Holograms) LoadForWorld(world string, chests []*Chest) {
	for _, c := range chests {
		if c.Pos.World == world {
			h.Create(c)
		}
	}
}

// Tracked reports whether a label is currently tracked at the position.
func (h *Holograms) Tracked(pos Position) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, rich := h.richOut[pos]
	_, marker := h.markers[pos]
	return rich || marker
}

// anchorFor centers the label slightly above the block at pos.
func anchorFor(pos Position) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(pos.Pos.X()) + 0.5,
		float64(pos.Pos.Y()) + hologramYOffset,
		float64(pos.Pos.Z()) + 0.5,
	}
}
