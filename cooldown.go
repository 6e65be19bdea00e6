package commandchest

import "github.com/google/uuid"

// The cooldown gate is pure arithmetic over a chest's activation history.
// Cooldowns are per player: one player's activations never affect another's.

// OnCooldown reports whether the player is still inside the chest's cooldown
// window at the given time. A chest with cooldown 0, or a player who never
// activated it, is never on cooldown.
func OnCooldown(c *Chest, player uuid.UUID, nowMillis int64) bool {
	if c.Cooldown() <= 0 {
		return false
	}
	last := c.LastActivation(player)
	if last == 0 {
		return false
	}
	return (nowMillis-last)/1000 < int64(c.Cooldown())
}

// RemainingCooldown returns the whole seconds left before the player may
// activate the chest again, or 0 if the cooldown is disabled or elapsed.
func RemainingCooldown(c *Chest, player uuid.UUID, nowMillis int64) int64 {
	if c.Cooldown() <= 0 {
		return 0
	}
	last := c.LastActivation(player)
	if last == 0 {
		return 0
	}
	remaining := int64(c.Cooldown()) - (nowMillis-last)/1000
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StampActivation records an activation for the player at the given time.
func StampActivation(c *Chest, player uuid.UUID, nowMillis int64) {
	if c.LastUsed == nil {
		c.LastUsed = map[uuid.UUID]int64{}
	}
	c.LastUsed[player] = nowMillis
}
