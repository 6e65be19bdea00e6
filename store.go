package commandchest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Backend is the document store behind the chest registry. Each chest
// persists as one opaque document addressed by its id.
type Backend interface {
	// Name returns a unique identifier for this backend (for logging).
	Name() string

	// LoadAll returns every stored chest. Individual malformed documents
	// are skipped, not fatal.
	LoadAll() ([]*Chest, error)

	// Save inserts or overwrites the document for a chest.
	Save(c *Chest) error

	// Delete removes the document for a chest id. Deleting an absent
	// document is not an error.
	Delete(id uuid.UUID) error

	// Close releases backend resources.
	Close() error
}

// KindValidator reports whether an item kind name is known to the game. A nil
// validator accepts every non-empty kind.
type KindValidator func(kind string) bool

// chestDoc is the persisted document schema, shared by every backend.
type chestDoc struct {
	UUID     string      `yaml:"uuid"`
	Location locationDoc `yaml:"location"`
	Name     nameDoc     `yaml:"name"`
	Command  string      `yaml:"command"`
	Cooldown int         `yaml:"cooldown"`
	Method   string      `yaml:"activation-method"`
	Item     *itemDoc    `yaml:"required-item,omitempty"`
	// LastActivations maps player UUID strings to epoch milliseconds.
	LastActivations map[string]int64 `yaml:"last-activations,omitempty"`
}

type locationDoc struct {
	World string `yaml:"world"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Z     int    `yaml:"z"`
}

type nameDoc struct {
	Lines   []string `yaml:"lines"`
	Visible bool     `yaml:"visible"`
}

type itemDoc struct {
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count"`
}

// marshalChest encodes a chest as its document.
func marshalChest(c *Chest) ([]byte, error) {
	doc := chestDoc{
		UUID: c.ID.String(),
		Location: locationDoc{
			World: c.Pos.World,
			X:     c.Pos.Pos.X(), Y: c.Pos.Pos.Y(), Z: c.Pos.Pos.Z(),
		},
		Name:     nameDoc{Lines: c.NameLines, Visible: c.NameVisible},
		Command:  c.Command,
		Cooldown: c.Cooldown(),
		Method:   c.Method.String(),
	}
	if c.RequiredItem != nil {
		doc.Item = &itemDoc{Kind: c.RequiredItem.Kind, Count: c.RequiredItem.Count}
	}
	if len(c.LastUsed) > 0 {
		doc.LastActivations = make(map[string]int64, len(c.LastUsed))
		for player, ts := range c.LastUsed {
			doc.LastActivations[player.String()] = ts
		}
	}
	return yaml.Marshal(doc)
}

// unmarshalChest decodes a chest document leniently: an unknown activation
// method falls back to RIGHT, an invalid required-item kind is dropped, and
// invalid player keys in the activation history are skipped individually. A
// missing or malformed id is the only fatal condition.
func unmarshalChest(data []byte, validate KindValidator) (*Chest, error) {
	var doc chestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode chest document: %w", err)
	}
	id, err := uuid.Parse(doc.UUID)
	if err != nil {
		return nil, fmt.Errorf("chest document: invalid uuid %q: %w", doc.UUID, err)
	}

	c := NewChest(id, Position{
		World: doc.Location.World,
		Pos:   cube.Pos{doc.Location.X, doc.Location.Y, doc.Location.Z},
	})
	c.NameLines = doc.Name.Lines
	c.NameVisible = doc.Name.Visible
	c.Command = doc.Command
	c.SetCooldown(doc.Cooldown)
	c.Method, _ = ParseActivationMethod(doc.Method)

	if doc.Item != nil && doc.Item.Kind != "" {
		if validate == nil || validate(doc.Item.Kind) {
			count := doc.Item.Count
			if count < 1 {
				count = 1
			}
			c.RequiredItem = &ItemRequirement{Kind: doc.Item.Kind, Count: count}
		}
	}
	for key, ts := range doc.LastActivations {
		player, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		c.LastUsed[player] = ts
	}
	return c, nil
}

// FileBackend stores one YAML document per chest, named <id>.yml, inside a
// single directory.
type FileBackend struct {
	dir      string
	validate KindValidator
	log      *slog.Logger
}

// NewFileBackend creates the directory if needed and returns a file backend.
func NewFileBackend(dir string, validate KindValidator, log *slog.Logger) (*FileBackend, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chest directory: %w", err)
	}
	return &FileBackend{dir: dir, validate: validate, log: log}, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return "file" }

// LoadAll implements Backend. Unreadable or malformed files are logged and
// skipped so one broken document never hides the rest.
func (b *FileBackend) LoadAll() ([]*Chest, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("read chest directory: %w", err)
	}
	var chests []*Chest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		path := filepath.Join(b.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			b.log.Warn("commandchest: failed to read chest file", "file", entry.Name(), "error", err)
			continue
		}
		c, err := unmarshalChest(data, b.validate)
		if err != nil {
			b.log.Warn("commandchest: failed to load chest file", "file", entry.Name(), "error", err)
			continue
		}
		chests = append(chests, c)
	}
	return chests, nil
}

// Save implements Backend.
func (b *FileBackend) Save(c *Chest) error {
	data, err := marshalChest(c)
	if err != nil {
		return err
	}
	return os.WriteFile(b.path(c.ID), data, 0o644)
}

// Delete implements Backend.
func (b *FileBackend) Delete(id uuid.UUID) error {
	if err := os.Remove(b.path(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

func (b *FileBackend) path(id uuid.UUID) string {
	return filepath.Join(b.dir, id.String()+".yml")
}

// Store is the in-memory chest registry keyed by position, backed by a
// document Backend. The in-memory state is the source of truth; persistence
// failures are logged and retried on the next save.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	chests  map[Position]*Chest
	log     *slog.Logger
}

// NewStore creates an empty registry over a backend.
func NewStore(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: backend, chests: map[Position]*Chest{}, log: log}
}

// Load replaces the registry contents with everything the backend holds.
func (s *Store) Load() error {
	chests, err := s.backend.LoadAll()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.chests = make(map[Position]*Chest, len(chests))
	for _, c := range chests {
		s.chests[c.Pos] = c
	}
	s.mu.Unlock()
	s.log.Info("commandchest: loaded configured chests", "count", len(chests), "backend", s.backend.Name())
	return nil
}

// Get returns the chest configured at a position.
func (s *Store) Get(pos Position) (*Chest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chests[pos]
	return c, ok
}

// Has reports whether a position has a configuration.
func (s *Store) Has(pos Position) bool {
	_, ok := s.Get(pos)
	return ok
}

// Add inserts or overwrites a chest and persists it immediately.
func (s *Store) Add(c *Chest) {
	s.mu.Lock()
	s.chests[c.Pos] = c
	s.mu.Unlock()
	if err := s.backend.Save(c); err != nil {
		s.log.Error("commandchest: failed to save chest", "chest", c.ID, "error", err)
	}
}

// Remove deletes the chest at a position, erasing its backing document.
func (s *Store) Remove(pos Position) {
	s.mu.Lock()
	c, ok := s.chests[pos]
	delete(s.chests, pos)
	s.mu.Unlock()
	if !ok {
		return
	}
	if err := s.backend.Delete(c.ID); err != nil {
		s.log.Error("commandchest: failed to delete chest document", "chest", c.ID, "error", err)
	}
}

// All returns a snapshot of every registered chest.
func (s *Store) All() []*Chest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*Chest, 0, len(s.chests))
	for _, c := range s.chests {
		all = append(all, c)
	}
	return all
}

// SaveAll persists every registered chest, logging individual failures.
func (s *Store) SaveAll() {
	for _, c := range s.All() {
		if err := s.backend.Save(c); err != nil {
			s.log.Error("commandchest: failed to save chest", "chest", c.ID, "error", err)
		}
	}
}

// Close flushes the registry and closes the backend.
func (s *Store) Close() error {
	s.SaveAll()
	return s.backend.Close()
}
