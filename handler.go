package commandchest

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/go-gl/mathgl/mgl64"
)

// Handler routes the player events the chest system cares about into the
// manager: right and left clicks on blocks, block breaks, chat capture and
// disconnects. Attach it with p.Handle(m.Handler()).
//
// Handlers are executed synchronously by Dragonfly within the world's tick
// loop, so routing into the managers here is serialized with the rest of the
// event processing.
type Handler struct {
	player.NopHandler
	m *Manager
}

// Compile-time check that Handler implements player.Handler.
var _ player.Handler = Handler{}

// HandleItemUseOnBlock routes right clicks. Holding the configurator stick
// opens the editor; otherwise the click is an activation attempt. The
// interaction is cancelled whenever it targeted one of ours, so the
// underlying container never opens.
func (h Handler) HandleItemUseOnBlock(ctx *player.Context, pos cube.Pos, face cube.Face, clickPos mgl64.Vec3) {
	p := ctx.Val()
	main, _ := p.HeldItems()
	if IsConfigurator(main) {
		if h.m.OpenEditor(p, pos) {
			ctx.Cancel()
		}
		return
	}
	if h.m.Activate(p, pos, ClickRight) {
		ctx.Cancel()
	}
}

// HandleStartBreak routes left clicks. The configurator stick is inert on
// left click so configured chests can still be broken while holding it;
// without it, a left click on a configured chest is an activation attempt
// and the break is cancelled.
func (h Handler) HandleStartBreak(ctx *player.Context, pos cube.Pos) {
	p := ctx.Val()
	main, _ := p.HeldItems()
	if IsConfigurator(main) {
		return
	}
	if h.m.Activate(p, pos, ClickLeft) {
		ctx.Cancel()
	}
}

// HandleBlockBreak deletes the configuration and label of a configured chest
// that is destroyed in the world.
func (h Handler) HandleBlockBreak(ctx *player.Context, pos cube.Pos, drops *[]item.Stack, xp *int) {
	p := ctx.Val()
	position := Position{World: p.Tx().World().Name(), Pos: pos}
	if h.m.Store().Has(position) {
		h.m.RemoveAt(position)
	}
}

// HandleChat feeds chat messages into a pending text capture, cancelling the
// message when it was consumed.
func (h Handler) HandleChat(ctx *player.Context, message *string) {
	p := ctx.Val()
	if h.m.Sessions().HandleChat(p.UUID(), *message) {
		ctx.Cancel()
	}
}

// HandleQuit discards the player's editing session.
func (h Handler) HandleQuit(p *player.Player) {
	h.m.Sessions().Quit(p.UUID())
}
