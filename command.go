package commandchest

import (
	"github.com/df-mc/dragonfly/server/cmd"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// RegisterCommand registers /cchest, which hands the player the configurator
// stick.
func RegisterCommand(m *Manager) {
	cmd.Register(cmd.New("cchest", "Receive the chest configuration stick.", []string{"commandchest"}, StickCommand{m: m}))
}

// StickCommand gives the configurator stick to the executing player.
type StickCommand struct {
	m *Manager
}

// Run implements cmd.Runnable.
func (c StickCommand) Run(src cmd.Source, o *cmd.Output, tx *world.Tx) {
	p, ok := src.(*player.Player)
	if !ok {
		o.Error("This command can only be used by players.")
		return
	}
	if c.m.permission != nil && !c.m.permission(p) {
		o.Error(c.m.conf.Messages.Command.NoPermission)
		return
	}
	if _, err := p.Inventory().AddItem(NewConfigurator()); err != nil {
		o.Error("Your inventory is full.")
		return
	}
	c.m.messenger.Message(p.UUID(), c.m.conf.Messages.Command.StickReceived)
}

// Allow implements cmd.Allower so the command is hidden from sources that
// may not use it.
func (c StickCommand) Allow(src cmd.Source) bool {
	p, ok := src.(*player.Player)
	if !ok {
		return false
	}
	return c.m.permission == nil || c.m.permission(p)
}
