package commandchest

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/entity"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
)

// WorldResolver maps a persisted world name to a loaded world, or nil if the
// world is not available yet.
type WorldResolver func(name string) *world.World

// WorldTextSpawner spawns hologram lines as text entities inside world
// transactions. It implements only the marker surface; text entities cannot
// be scaled, so the small hint is ignored.
type WorldTextSpawner struct {
	resolve WorldResolver
}

// NewWorldTextSpawner returns a spawner resolving worlds through resolve.
func NewWorldTextSpawner(resolve WorldResolver) *WorldTextSpawner {
	return &WorldTextSpawner{resolve: resolve}
}

// SpawnText implements TextSpawner.
func (s *WorldTextSpawner) SpawnText(worldName string, pos mgl64.Vec3, text string, small bool) (TextHandle, error) {
	w := s.resolve(worldName)
	if w == nil {
		return nil, fmt.Errorf("world %q not loaded", worldName)
	}
	handle := entity.NewText(text, pos)
	w.Exec(func(tx *world.Tx) {
		tx.AddEntity(handle)
	})
	return &worldTextHandle{handle: handle}, nil
}

type worldTextHandle struct {
	handle *world.EntityHandle
}

// Remove despawns the text entity in its world's transaction.
func (h *worldTextHandle) Remove() {
	h.handle.ExecWorld(func(tx *world.Tx, e world.Entity) {
		_ = tx.RemoveEntity(e)
	})
}
