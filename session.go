package commandchest

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Messenger delivers user-facing text to a player. Every string passed
// through it comes from the configured message templates.
type Messenger interface {
	Message(player uuid.UUID, text string)
}

// captureField names which chest field the next chat message populates.
type captureField int

const (
	captureNone captureField = iota
	captureCommand
	captureCooldown
	captureNameLine
)

// graceTicks is how long after a menu close the session waits before
// deciding the player really walked away. The substrate cannot distinguish
// "user closed the menu" from "we are about to reopen it", so the check is a
// best-effort heuristic, not a strict guarantee.
const graceTicks = 3

// session is one player's in-progress edit. The draft is an owned clone of
// the stored record; nothing is committed until Save.
type session struct {
	draft   *Chest
	menu    MenuKind
	capture captureField
}

// Sessions owns every player's editing session and drives the modal flow
// across the two menus and the chat-capture sub-mode. All entry points run on
// the server's event-processing thread; the internal lock only guards the
// deferred tasks the scheduler runs on its own goroutine.
type Sessions struct {
	mu        sync.Mutex
	store     *Store
	holograms *Holograms
	ui        MenuUI
	sched     *Scheduler
	messenger Messenger
	msgs      *Messages
	log       *slog.Logger

	open map[uuid.UUID]*session
}

// NewSessions wires the editing-session manager.
func NewSessions(store *Store, holograms *Holograms, ui MenuUI, sched *Scheduler, messenger Messenger, msgs *Messages, log *slog.Logger) *Sessions {
	if log == nil {
		log = slog.Default()
	}
	return &Sessions{
		store:     store,
		holograms: holograms,
		ui:        ui,
		sched:     sched,
		messenger: messenger,
		msgs:      msgs,
		log:       log,
		open:      map[uuid.UUID]*session{},
	}
}

// Open starts (or restarts) an editing session for the player on a draft
// chest, replacing any prior session, and shows the main menu. The draft
// should be a clone of the stored record; see Chest.Clone.
func (s *Sessions) Open(player uuid.UUID, draft *Chest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[player] = &session{draft: draft, menu: MenuConfig}
	s.ui.Open(player, ConfigMenu(draft, s.msgs))
}

// Editing reports whether the player has a session.
func (s *Sessions) Editing(player uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.open[player]
	return ok
}

// AwaitingInput reports whether the player's next chat message will be
// captured by the session.
func (s *Sessions) AwaitingInput(player uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.open[player]
	return ok && sess.capture != captureNone
}

// HandleClick processes one slot click while a menu of ours is showing. The
// substrate must cancel the underlying interaction in every case; the result
// only carries extra instructions. Clicks without a session, or on inert
// slots, are swallowed.
func (s *Sessions) HandleClick(player uuid.UUID, click Click) ClickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.open[player]
	if !ok {
		return ClickResult{}
	}
	switch sess.menu {
	case MenuConfig:
		return s.clickConfig(player, sess, click)
	case MenuNameEditor:
		return s.clickNameEditor(player, sess, click)
	}
	return ClickResult{}
}

func (s *Sessions) clickConfig(player uuid.UUID, sess *session, click Click) ClickResult {
	switch click.Slot {
	case SlotName:
		// The main menu must fully close before the submenu opens.
		sess.menu = MenuNameEditor
		s.ui.Close(player)
		s.scheduleReopen(player)

	case SlotCommand:
		sess.capture = captureCommand
		s.messenger.Message(player, s.msgs.Chat.EnterCommand)
		s.ui.Close(player)

	case SlotCooldown:
		sess.capture = captureCooldown
		s.messenger.Message(player, s.msgs.Chat.EnterCooldown)
		s.ui.Close(player)

	case SlotActivationLeft:
		s.setMethod(player, sess, MethodLeft)
	case SlotActivationRight:
		s.setMethod(player, sess, MethodRight)
	case SlotActivationBoth:
		s.setMethod(player, sess, MethodBoth)
	case SlotActivationShift:
		s.setMethod(player, sess, MethodShift)

	case SlotItem:
		if !click.Cursor.Empty() {
			sess.draft.RequiredItem = &ItemRequirement{Kind: click.Cursor.Kind, Count: click.Cursor.Count}
			s.ui.Open(player, ConfigMenu(sess.draft, s.msgs))
			return ClickResult{ClearCursor: true}
		}
		if sess.draft.RequiredItem != nil {
			sess.draft.RequiredItem = nil
			s.ui.Open(player, ConfigMenu(sess.draft, s.msgs))
		}

	case SlotDelete:
		s.store.Remove(sess.draft.Pos)
		s.holograms.Remove(sess.draft.Pos)
		delete(s.open, player)
		s.ui.Close(player)
		s.messenger.Message(player, s.msgs.Config.ChestDeleted)

	case SlotSave:
		s.store.Add(sess.draft)
		s.holograms.Update(sess.draft)
		delete(s.open, player)
		s.ui.Close(player)
		s.messenger.Message(player, s.msgs.Config.ChestConfigured)

	case SlotClose:
		delete(s.open, player)
		s.ui.Close(player)
	}
	return ClickResult{}
}

func (s *Sessions) clickNameEditor(player uuid.UUID, sess *session, click Click) ClickResult {
	switch {
	case click.Slot == SlotAddLine:
		sess.capture = captureNameLine
		s.messenger.Message(player, s.msgs.Chat.EnterNameLine)
		s.ui.Close(player)

	case click.Slot == SlotToggleVisibility:
		sess.draft.NameVisible = !sess.draft.NameVisible
		s.ui.Open(player, NameMenu(sess.draft, s.msgs))

	case click.Slot == SlotBack:
		sess.menu = MenuConfig
		s.ui.Open(player, ConfigMenu(sess.draft, s.msgs))

	case click.Slot >= lineSlotStart && click.Slot < lineSlotStart+maxNameLines:
		idx := click.Slot - lineSlotStart
		if idx < len(sess.draft.NameLines) {
			sess.draft.NameLines = append(sess.draft.NameLines[:idx], sess.draft.NameLines[idx+1:]...)
			s.ui.Open(player, NameMenu(sess.draft, s.msgs))
		}
	}
	return ClickResult{}
}

// setMethod updates the draft's activation method and schedules a next-tick
// reopen so the refreshed button state becomes visible after the substrate
// finishes the current interaction.
func (s *Sessions) setMethod(player uuid.UUID, sess *session, method ActivationMethod) {
	sess.draft.Method = method
	s.scheduleReopen(player)
}

// HandleClose is fired by the substrate whenever the player's menu becomes
// not-visible, including transitions this component caused itself. The
// session is kept until a grace check confirms no menu of ours came back and
// no chat capture is pending; tearing down immediately would lose the draft
// on every internal navigation hop.
func (s *Sessions) HandleClose(player uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.open[player]
	if !ok || sess.capture != captureNone {
		return
	}
	s.sched.Schedule(graceTicks, func() {
		s.graceCheck(player)
	})
}

func (s *Sessions) graceCheck(player uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.open[player]
	if !ok || sess.capture != captureNone {
		return
	}
	if s.ui.Viewing(player) != MenuNone {
		return
	}
	delete(s.open, player)
}

// HandleChat consumes the player's chat message when a text capture is
// pending, returning true if the message was consumed (and must be cancelled
// by the caller). Without a session or pending capture it is a no-op.
func (s *Sessions) HandleChat(player uuid.UUID, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.open[player]
	if !ok || sess.capture == captureNone {
		return false
	}
	field := sess.capture
	sess.capture = captureNone

	switch field {
	case captureCommand:
		sess.draft.Command = text
		s.messenger.Message(player, Format(s.msgs.Chat.CommandSet, "command", text))

	case captureCooldown:
		seconds, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			s.messenger.Message(player, s.msgs.Chat.InvalidCooldown)
			break
		}
		sess.draft.SetCooldown(seconds)
		s.messenger.Message(player, Format(s.msgs.Chat.CooldownSet, "cooldown", strconv.Itoa(sess.draft.Cooldown())))

	case captureNameLine:
		sess.draft.NameLines = append(sess.draft.NameLines, text)
		s.messenger.Message(player, s.msgs.Chat.NameLineAdded)
	}

	s.scheduleReopen(player)
	return true
}

// scheduleReopen defers re-showing the session's current menu to the next
// tick, after the substrate has finished processing the current event.
func (s *Sessions) scheduleReopen(player uuid.UUID) {
	s.sched.Schedule(1, func() {
		s.reopen(player)
	})
}

func (s *Sessions) reopen(player uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.open[player]
	if !ok {
		return
	}
	switch sess.menu {
	case MenuConfig:
		s.ui.Open(player, ConfigMenu(sess.draft, s.msgs))
	case MenuNameEditor:
		s.ui.Open(player, NameMenu(sess.draft, s.msgs))
	}
}

// Quit discards the player's session, if any. Called when the player leaves
// the server.
func (s *Sessions) Quit(player uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.open, player)
}
