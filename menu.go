package commandchest

import (
	"strconv"

	"github.com/google/uuid"
)

// MenuKind identifies which of the editor's menus a player is looking at.
type MenuKind int

const (
	// MenuNone means no menu of ours is visible.
	MenuNone MenuKind = iota
	// MenuConfig is the main configuration menu.
	MenuConfig
	// MenuNameEditor is the label line editor nested under MenuConfig.
	MenuNameEditor
)

// Main menu slots. Every other slot is inert decoration; the substrate fills
// it with background filler and the session swallows clicks there.
const (
	SlotName            = 10
	SlotCommand         = 12
	SlotCooldown        = 14
	SlotItem            = 22
	SlotActivationLeft  = 28
	SlotActivationRight = 30
	SlotActivationBoth  = 32
	SlotActivationShift = 34
	SlotDelete          = 40
	SlotSave            = 48
	SlotClose           = 50
)

// Name editor slots. Label lines occupy lineSlotStart..lineSlotStart+maxNameLines-1.
const (
	SlotAddLine          = 4
	SlotBack             = 45
	SlotToggleVisibility = 49

	lineSlotStart = 9
	maxNameLines  = 36
)

// MenuSize is the slot count of both menus.
const MenuSize = 54

// Button is one clickable slot. Icon is an item identifier the substrate uses
// for the slot's visual; the session logic never interprets it.
type Button struct {
	Icon  string
	Count int
	Name  string
	Lore  []string
}

// Menu is a rendered menu layout handed to the UI substrate.
type Menu struct {
	Kind    MenuKind
	Title   string
	Buttons map[int]Button
}

// Click is one slot interaction delivered by the UI substrate. Cursor is the
// item stack the player carries on the cursor, zero if none.
type Click struct {
	Slot   int
	Cursor Stack
}

// ClickResult tells the substrate what to do beyond cancelling the
// interaction (which it always does while one of our menus is showing).
type ClickResult struct {
	// ClearCursor empties the player's cursor; set when the cursor item
	// was consumed as the chest's item requirement.
	ClearCursor bool
}

// MenuUI is the asynchronous menu substrate. Open replaces whatever window
// the player currently sees; the substrate reports lifecycle events back
// through Sessions (HandleClick, HandleClose) and must not call back into
// Sessions from within Open or Close.
type MenuUI interface {
	Open(player uuid.UUID, menu *Menu)
	Close(player uuid.UUID)
	// Viewing returns which of our menus the player currently has open,
	// MenuNone if none.
	Viewing(player uuid.UUID) MenuKind
}

// ConfigMenu builds the main configuration menu for a chest draft.
func ConfigMenu(c *Chest, m *Messages) *Menu {
	g := &m.GUI
	buttons := map[int]Button{}

	nameLore := []string{g.DescriptionName}
	if len(c.NameLines) > 0 {
		visible := "No"
		if c.NameVisible {
			visible = "Yes"
		}
		nameLore = append(nameLore, "",
			"Current lines: "+strconv.Itoa(len(c.NameLines)),
			"Visible: "+visible)
	}
	buttons[SlotName] = Button{Icon: "minecraft:name_tag", Name: g.ButtonName, Lore: nameLore}

	commandLore := []string{g.DescriptionCommand}
	if c.Command != "" {
		commandLore = append(commandLore, "", "Current: "+c.Command)
	}
	buttons[SlotCommand] = Button{Icon: "minecraft:command_block", Name: g.ButtonCommand, Lore: commandLore}

	buttons[SlotCooldown] = Button{
		Icon: "minecraft:clock", Name: g.ButtonCooldown,
		Lore: []string{g.DescriptionCooldown, "", "Current: " + strconv.Itoa(c.Cooldown()) + " seconds"},
	}

	buttons[SlotActivationLeft] = activationButton(c, MethodLeft, "minecraft:lever", g.DescriptionActivationLeft, g)
	buttons[SlotActivationRight] = activationButton(c, MethodRight, "minecraft:stone_button", g.DescriptionActivationRight, g)
	buttons[SlotActivationBoth] = activationButton(c, MethodBoth, "minecraft:tripwire_hook", g.DescriptionActivationBoth, g)
	buttons[SlotActivationShift] = activationButton(c, MethodShift, "minecraft:piston", g.DescriptionActivationShift, g)

	if c.RequiredItem != nil {
		buttons[SlotItem] = Button{Icon: c.RequiredItem.Kind, Count: c.RequiredItem.Count, Name: g.ButtonItem, Lore: []string{"Click to clear the requirement"}}
	} else {
		buttons[SlotItem] = Button{Icon: "minecraft:barrier", Name: g.ButtonItem, Lore: []string{g.DescriptionItem}}
	}

	buttons[SlotDelete] = Button{Icon: "minecraft:red_wool", Name: g.ButtonDelete, Lore: []string{g.DescriptionDelete}}
	buttons[SlotSave] = Button{Icon: "minecraft:green_wool", Name: g.ButtonSave, Lore: []string{g.DescriptionSave}}
	buttons[SlotClose] = Button{Icon: "minecraft:barrier", Name: g.ButtonClose, Lore: []string{g.DescriptionClose}}

	return &Menu{Kind: MenuConfig, Title: g.MainTitle, Buttons: buttons}
}

func activationButton(c *Chest, method ActivationMethod, icon, description string, g *GUIMessages) Button {
	status := g.StatusDisabled
	if c.Method == method {
		status = g.StatusEnabled
	}
	return Button{
		Icon: icon,
		Name: method.String() + " Click",
		Lore: []string{description, "", status},
	}
}

// NameMenu builds the label editor menu for a chest draft.
func NameMenu(c *Chest, m *Messages) *Menu {
	g := &m.GUI
	buttons := map[int]Button{
		SlotAddLine: {Icon: "minecraft:green_wool", Name: g.ButtonAddLine, Lore: []string{g.DescriptionAddLine}},
		SlotBack:    {Icon: "minecraft:arrow", Name: g.ButtonBack, Lore: []string{g.DescriptionBack}},
	}

	status := g.StatusHidden
	icon := "minecraft:ender_eye"
	if c.NameVisible {
		status = g.StatusVisible
		icon = "minecraft:spyglass"
	}
	buttons[SlotToggleVisibility] = Button{
		Icon: icon, Name: g.ButtonToggleVisibility,
		Lore: []string{g.DescriptionToggleVisibility, "", status},
	}

	for i, line := range c.NameLines {
		if i >= maxNameLines {
			break
		}
		buttons[lineSlotStart+i] = Button{
			Icon: "minecraft:paper",
			Name: line,
			Lore: []string{"Line " + strconv.Itoa(i+1), "Click to remove"},
		}
	}
	return &Menu{Kind: MenuNameEditor, Title: g.NameEditorTitle, Buttons: buttons}
}
