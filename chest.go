package commandchest

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
)

// Position identifies the block a chest configuration is bound to. It is the
// lookup key for activation: at most one configuration exists per position.
type Position struct {
	World string
	Pos   cube.Pos
}

// ActivationMethod is the click gesture that activates a configured chest.
type ActivationMethod int

const (
	// MethodLeft activates on a left click while not sneaking.
	MethodLeft ActivationMethod = iota
	// MethodRight activates on a right click while not sneaking. This is the
	// default for new chests.
	MethodRight
	// MethodBoth activates on either click while not sneaking.
	MethodBoth
	// MethodShift activates on any click while sneaking.
	MethodShift
)

// ClickKind is the click half of an interaction event.
type ClickKind int

const (
	ClickLeft ClickKind = iota
	ClickRight
)

// String returns the persisted name of the method, e.g. "RIGHT".
func (m ActivationMethod) String() string {
	switch m {
	case MethodLeft:
		return "LEFT"
	case MethodBoth:
		return "BOTH"
	case MethodShift:
		return "SHIFT"
	default:
		return "RIGHT"
	}
}

// ParseActivationMethod parses a persisted method name. Unknown names report
// ok=false; callers fall back to MethodRight.
func ParseActivationMethod(s string) (ActivationMethod, bool) {
	switch s {
	case "LEFT":
		return MethodLeft, true
	case "RIGHT":
		return MethodRight, true
	case "BOTH":
		return MethodBoth, true
	case "SHIFT":
		return MethodShift, true
	}
	return MethodRight, false
}

// Matches reports whether a click of the given kind, with the given sneaking
// state, satisfies the method.
func (m ActivationMethod) Matches(click ClickKind, sneaking bool) bool {
	switch m {
	case MethodLeft:
		return click == ClickLeft && !sneaking
	case MethodRight:
		return click == ClickRight && !sneaking
	case MethodBoth:
		return !sneaking
	case MethodShift:
		return sneaking
	}
	return false
}

// ItemRequirement is an optional held-item gate: the activating player must
// hold at least Count of the item kind.
type ItemRequirement struct {
	Kind  string
	Count int
}

// Stack is the engine-agnostic view of an item stack, as delivered by the
// interaction source. A zero Stack means an empty hand or cursor.
type Stack struct {
	Kind  string
	Count int
}

// Empty reports whether the stack holds nothing.
func (s Stack) Empty() bool {
	return s.Kind == "" || s.Count <= 0
}

// Satisfies reports whether the stack meets an item requirement.
func (s Stack) Satisfies(req *ItemRequirement) bool {
	if req == nil {
		return true
	}
	return s.Kind == req.Kind && s.Count >= req.Count
}

// Chest is the persistent configuration bound to one container block: the
// command it runs, how it is activated, its cooldown and its floating label.
type Chest struct {
	// ID is assigned at creation and never changes. It is the storage key;
	// Pos is the activation lookup key.
	ID  uuid.UUID
	Pos Position

	// NameLines is the label text, one entry per line, in display order
	// top to bottom. The label is rendered only when NameVisible is true
	// and at least one line exists.
	NameLines   []string
	NameVisible bool

	// Command is dispatched as the activating player. Empty means the
	// chest is not configured yet.
	Command string

	// Method defaults to MethodRight.
	Method ActivationMethod

	// RequiredItem is nil when activation needs no held item.
	RequiredItem *ItemRequirement

	// LastUsed maps player identity to the epoch-millisecond timestamp of
	// the last activation attempt that passed all gates.
	LastUsed map[uuid.UUID]int64

	cooldown int
}

// NewChest creates an unconfigured chest bound to a position, with the
// defaults a fresh configuration carries: visible empty label, no command, no
// cooldown, right-click activation, no item requirement.
func NewChest(id uuid.UUID, pos Position) *Chest {
	return &Chest{
		ID:          id,
		Pos:         pos,
		NameVisible: true,
		Method:      MethodRight,
		LastUsed:    map[uuid.UUID]int64{},
	}
}

// Cooldown returns the cooldown in seconds. 0 means no cooldown.
func (c *Chest) Cooldown() int {
	return c.cooldown
}

// SetCooldown sets the cooldown in seconds, clamping negative input to 0.
func (c *Chest) SetCooldown(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.cooldown = seconds
}

// LastActivation returns the last activation timestamp for a player in epoch
// milliseconds, or 0 if the player never activated this chest.
func (c *Chest) LastActivation(player uuid.UUID) int64 {
	return c.LastUsed[player]
}

// Clone returns a deep copy of the chest. Editing sessions work on a clone so
// that abandoning a session never mutates the committed record.
func (c *Chest) Clone() *Chest {
	cp := *c
	cp.NameLines = append([]string(nil), c.NameLines...)
	if c.RequiredItem != nil {
		req := *c.RequiredItem
		cp.RequiredItem = &req
	}
	cp.LastUsed = make(map[uuid.UUID]int64, len(c.LastUsed))
	for k, v := range c.LastUsed {
		cp.LastUsed[k] = v
	}
	return &cp
}
