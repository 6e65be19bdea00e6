package commandchest

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DenyReason explains why an activation attempt was rejected.
type DenyReason int

const (
	// DenyNone is the reason carried by an allowed decision.
	DenyNone DenyReason = iota
	// DenyMethodMismatch: the click/sneak combination does not match the
	// chest's activation method.
	DenyMethodMismatch
	// DenyMissingItem: the player is not holding the required item, or not
	// enough of it.
	DenyMissingItem
	// DenyOnCooldown: the player activated the chest too recently.
	DenyOnCooldown
	// DenyUnconfigured: the chest has no command bound.
	DenyUnconfigured
)

// Decision is the outcome of the activation gates.
type Decision struct {
	Allowed bool
	Reason  DenyReason

	// Remaining is the whole seconds left on the cooldown. Set only for
	// DenyOnCooldown.
	Remaining int64
}

var allow = Decision{Allowed: true}

// Decide evaluates every activation gate for one interaction, in order:
// activation method, item requirement, cooldown, configured command. It has
// no side effects; callers dispatch the command and stamp the cooldown on an
// allowed decision.
func Decide(c *Chest, player uuid.UUID, click ClickKind, sneaking bool, held Stack, nowMillis int64) Decision {
	if !c.Method.Matches(click, sneaking) {
		return Decision{Reason: DenyMethodMismatch}
	}
	if !held.Satisfies(c.RequiredItem) {
		return Decision{Reason: DenyMissingItem}
	}
	if OnCooldown(c, player, nowMillis) {
		return Decision{Reason: DenyOnCooldown, Remaining: RemainingCooldown(c, player, nowMillis)}
	}
	if c.Command == "" {
		return Decision{Reason: DenyUnconfigured}
	}
	return allow
}

// Dispatcher executes a command string on behalf of the activating player.
// The command is stored without a leading slash.
type Dispatcher func(command string) error

// Activator applies the side effects of an allowed activation: command
// dispatch, cooldown stamp and persistence of the updated record.
type Activator struct {
	store *Store
	clock func() int64
	log   *slog.Logger
}

// NewActivator creates an activator persisting cooldown stamps through the
// given store. clock may be nil, in which case the wall clock is used.
func NewActivator(store *Store, clock func() int64, log *slog.Logger) *Activator {
	if clock == nil {
		clock = func() int64 { return time.Now().UnixMilli() }
	}
	if log == nil {
		log = slog.Default()
	}
	return &Activator{store: store, clock: clock, log: log}
}

// Activate runs the decision gates and, on an allowed decision, dispatches
// the chest's command and stamps the cooldown. The stamp reflects attempt
// time: a dispatch failure is logged and returned, but does not roll back or
// prevent the stamp. The updated record is persisted so cooldowns survive a
// restart.
func (a *Activator) Activate(c *Chest, player uuid.UUID, click ClickKind, sneaking bool, held Stack, dispatch Dispatcher) (Decision, error) {
	now := a.clock()
	dec := Decide(c, player, click, sneaking, held, now)
	if !dec.Allowed {
		return dec, nil
	}

	err := dispatch(c.Command)
	if err != nil {
		a.log.Warn("commandchest: command dispatch failed",
			"chest", c.ID, "player", player, "error", err)
	}

	StampActivation(c, player, now)
	a.store.Add(c)
	return dec, err
}
