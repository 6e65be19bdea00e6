package commandchest

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Options wires a Manager. UI, Spawner and Messenger are the collaborator
// surfaces the host server must provide; everything else has defaults.
type Options struct {
	Config Config

	// UI is the menu substrate showing the editor windows.
	UI MenuUI
	// Spawner places hologram text in the world. Use NewWorldTextSpawner
	// for the built-in marker entities.
	Spawner TextSpawner
	// Messenger delivers templated messages to players by identity.
	Messenger Messenger

	// Permission gates the /cchest command. Nil allows everyone.
	Permission func(p *player.Player) bool

	// Clock returns epoch milliseconds; nil uses the wall clock.
	Clock func() int64

	Log *slog.Logger
}

// Manager is the application context holding every component of the chest
// system. It is constructed once and passed by reference; there is no global
// instance.
type Manager struct {
	conf Config
	log  *slog.Logger

	store      *Store
	holograms  *Holograms
	sessions   *Sessions
	activator  *Activator
	sched      *Scheduler
	messenger  Messenger
	permission func(p *player.Player) bool
}

// New constructs a manager and its component graph. The store backend is
// selected by Config.Storage; nothing is loaded until Load is called.
func New(opts Options) (*Manager, error) {
	if opts.UI == nil || opts.Spawner == nil || opts.Messenger == nil {
		return nil, fmt.Errorf("commandchest: Options.UI, Options.Spawner and Options.Messenger are required")
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	var (
		backend Backend
		err     error
	)
	switch opts.Config.Storage {
	case "", "file":
		backend, err = NewFileBackend(opts.Config.DataDir, ValidateItemKind, log)
	case "sqlite":
		path := opts.Config.SQLitePath
		if path == "" {
			path = "chests.db"
		}
		backend, err = OpenSQLite(path, ValidateItemKind, log)
	default:
		err = fmt.Errorf("unknown storage backend %q", opts.Config.Storage)
	}
	if err != nil {
		return nil, err
	}

	m := &Manager{
		conf:       opts.Config,
		log:        log,
		sched:      NewScheduler(),
		messenger:  opts.Messenger,
		permission: opts.Permission,
	}
	m.store = NewStore(backend, log)
	m.holograms = NewHolograms(opts.Spawner, log)
	m.activator = NewActivator(m.store, opts.Clock, log)
	m.sessions = NewSessions(m.store, m.holograms, opts.UI, m.sched, opts.Messenger, &m.conf.Messages, log)
	return m, nil
}

// Load reads every stored chest, renders the labels of those whose worlds
// are available, and starts the deferred-task loop.
func (m *Manager) Load() error {
	if err := m.store.Load(); err != nil {
		return err
	}
	for _, c := range m.store.All() {
		m.holograms.Create(c)
	}
	m.sched.Start()
	return nil
}

// Close saves every chest, removes every label and stops the scheduler.
func (m *Manager) Close() error {
	m.sched.Stop()
	m.holograms.RemoveAll()
	return m.store.Close()
}

// Handler returns the player event handler to attach to joining players.
func (m *Manager) Handler() player.Handler {
	return Handler{m: m}
}

// Store returns the chest registry.
func (m *Manager) Store() *Store { return m.store }

// Holograms returns the label renderer.
func (m *Manager) Holograms() *Holograms { return m.holograms }

// Sessions returns the editing-session manager.
func (m *Manager) Sessions() *Sessions { return m.sessions }

// Scheduler returns the deferred-task scheduler.
func (m *Manager) Scheduler() *Scheduler { return m.sched }

// Messages returns the configured message templates.
func (m *Manager) Messages() *Messages { return &m.conf.Messages }

// OpenEditor handles a configurator-stick click on a block, returning true
// when the interaction was ours and must be cancelled. Shift-clicking an
// unconfigured container informs the player instead of opening the editor.
func (m *Manager) OpenEditor(p *player.Player, pos cube.Pos) bool {
	if !isContainer(p.Tx().Block(pos)) {
		m.messenger.Message(p.UUID(), m.conf.Messages.Config.InvalidBlock)
		return false
	}
	position := Position{World: p.Tx().World().Name(), Pos: pos}

	stored, ok := m.store.Get(position)
	if !ok && p.Sneaking() {
		m.messenger.Message(p.UUID(), m.conf.Messages.Config.ChestNotConfigured)
		return true
	}

	var draft *Chest
	if ok {
		draft = stored.Clone()
	} else {
		draft = NewChest(uuid.New(), position)
	}
	m.sessions.Open(p.UUID(), draft)
	return true
}

// Activate handles a plain click on a block, returning true when the block
// carries a configuration (the interaction must then be cancelled so the
// container never opens). The decision outcome is reported to the player
// through the configured templates.
func (m *Manager) Activate(p *player.Player, pos cube.Pos, click ClickKind) bool {
	position := Position{World: p.Tx().World().Name(), Pos: pos}
	c, ok := m.store.Get(position)
	if !ok {
		return false
	}

	main, _ := p.HeldItems()
	dec, err := m.activator.Activate(c, p.UUID(), click, p.Sneaking(), stackInfo(main), func(command string) error {
		p.ExecuteCommand("/" + command)
		return nil
	})

	msgs := &m.conf.Messages
	switch {
	case dec.Allowed && err != nil:
		m.messenger.Message(p.UUID(), msgs.Activation.CommandFailed)
	case dec.Allowed:
		m.messenger.Message(p.UUID(), msgs.Activation.CommandExecuted)
	case dec.Reason == DenyMethodMismatch:
		m.messenger.Message(p.UUID(), msgs.Activation.MethodMismatch)
	case dec.Reason == DenyMissingItem:
		m.messenger.Message(p.UUID(), msgs.Activation.ItemRequired)
	case dec.Reason == DenyOnCooldown:
		m.messenger.Message(p.UUID(), Format(msgs.Activation.OnCooldown, "time", strconv.FormatInt(dec.Remaining, 10)))
	case dec.Reason == DenyUnconfigured:
		m.messenger.Message(p.UUID(), msgs.Config.ChestNotConfigured)
	}
	return true
}

// RemoveAt deletes the configuration and label at a position, for when the
// backing block is destroyed.
func (m *Manager) RemoveAt(pos Position) {
	m.store.Remove(pos)
	m.holograms.Remove(pos)
}

// LoadHologramsForWorld re-creates labels for every chest in a world that
// became available after startup.
func (m *Manager) LoadHologramsForWorld(w *world.World) {
	m.holograms.LoadForWorld(w.Name(), m.store.All())
}
