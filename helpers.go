package commandchest

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
)

// configuratorName marks the tool that opens the editor instead of
// activating a chest.
const configuratorName = "Configuration Stick"

// NewConfigurator returns the stick players click containers with to
// configure them.
func NewConfigurator() item.Stack {
	return item.NewStack(item.Stick{}, 1).
		WithCustomName(configuratorName).
		WithLore("Right-click on a chest", "to configure it.")
}

// IsConfigurator reports whether the stack is the configurator stick.
func IsConfigurator(s item.Stack) bool {
	if s.Empty() {
		return false
	}
	if _, ok := s.Item().(item.Stick); !ok {
		return false
	}
	return s.CustomName() == configuratorName
}

// stackInfo converts a held stack into the engine-agnostic view the decision
// gates consume.
func stackInfo(s item.Stack) Stack {
	if s.Empty() {
		return Stack{}
	}
	name, _ := s.Item().EncodeItem()
	return Stack{Kind: name, Count: s.Count()}
}

// isContainer reports whether a block may carry a chest configuration.
func isContainer(b world.Block) bool {
	switch b.(type) {
	case block.Chest, block.Barrel, block.Hopper, block.Furnace, block.BlastFurnace, block.Smoker:
		return true
	}
	return false
}

// ValidateItemKind reports whether an item kind name is registered with the
// game, used to drop unknown required-item kinds on load.
func ValidateItemKind(kind string) bool {
	_, ok := world.ItemByName(kind, 0)
	return ok
}
