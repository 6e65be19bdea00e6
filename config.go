package commandchest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the plugin configuration. All user-facing text lives in Messages
// so operators can re-template every string; the core only substitutes named
// placeholders such as {command}, {cooldown} and {time}.
type Config struct {
	// DataDir holds the per-chest documents of the file backend.
	DataDir string `yaml:"data-dir"`
	// Storage selects the document backend: "file" or "sqlite".
	Storage string `yaml:"storage"`
	// SQLitePath is the database path used when Storage is "sqlite".
	SQLitePath string `yaml:"sqlite-path"`

	Messages Messages `yaml:"messages"`
}

// Messages groups every user-facing template.
type Messages struct {
	GUI        GUIMessages        `yaml:"gui"`
	Chat       ChatMessages       `yaml:"chat"`
	Activation ActivationMessages `yaml:"activation"`
	Config     ConfigMessages     `yaml:"config"`
	Command    CommandMessages    `yaml:"command"`
}

// GUIMessages are the menu titles, button names and button descriptions.
type GUIMessages struct {
	MainTitle       string `yaml:"main-title"`
	NameEditorTitle string `yaml:"name-editor-title"`

	ButtonName          string `yaml:"button-name"`
	DescriptionName     string `yaml:"description-name"`
	ButtonCommand       string `yaml:"button-command"`
	DescriptionCommand  string `yaml:"description-command"`
	ButtonCooldown      string `yaml:"button-cooldown"`
	DescriptionCooldown string `yaml:"description-cooldown"`
	ButtonItem          string `yaml:"button-item"`
	DescriptionItem     string `yaml:"description-item"`

	DescriptionActivationLeft  string `yaml:"description-activation-left"`
	DescriptionActivationRight string `yaml:"description-activation-right"`
	DescriptionActivationBoth  string `yaml:"description-activation-both"`
	DescriptionActivationShift string `yaml:"description-activation-shift"`
	StatusEnabled              string `yaml:"status-enabled"`
	StatusDisabled             string `yaml:"status-disabled"`

	ButtonDelete      string `yaml:"button-delete"`
	DescriptionDelete string `yaml:"description-delete"`
	ButtonSave        string `yaml:"button-save"`
	DescriptionSave   string `yaml:"description-save"`
	ButtonClose       string `yaml:"button-close"`
	DescriptionClose  string `yaml:"description-close"`

	ButtonAddLine               string `yaml:"button-add-line"`
	DescriptionAddLine          string `yaml:"description-add-line"`
	ButtonToggleVisibility      string `yaml:"button-toggle-visibility"`
	DescriptionToggleVisibility string `yaml:"description-toggle-visibility"`
	StatusVisible               string `yaml:"status-visible"`
	StatusHidden                string `yaml:"status-hidden"`
	ButtonBack                  string `yaml:"button-back"`
	DescriptionBack             string `yaml:"description-back"`
}

// ChatMessages are the text-capture prompts and confirmations.
type ChatMessages struct {
	EnterCommand    string `yaml:"enter-command"`
	EnterCooldown   string `yaml:"enter-cooldown"`
	EnterNameLine   string `yaml:"enter-name-line"`
	CommandSet      string `yaml:"command-set"`
	CooldownSet     string `yaml:"cooldown-set"`
	InvalidCooldown string `yaml:"invalid-cooldown"`
	NameLineAdded   string `yaml:"name-line-added"`
	CancelInput     string `yaml:"cancel-input"`
}

// ActivationMessages are shown on activation attempts.
type ActivationMessages struct {
	MethodMismatch  string `yaml:"activation-method-mismatch"`
	ItemRequired    string `yaml:"item-required"`
	OnCooldown      string `yaml:"on-cooldown"`
	CommandExecuted string `yaml:"command-executed"`
	CommandFailed   string `yaml:"command-failed"`
}

// ConfigMessages are shown while configuring chests.
type ConfigMessages struct {
	ChestConfigured    string `yaml:"chest-configured"`
	ChestDeleted       string `yaml:"chest-deleted"`
	ChestNotConfigured string `yaml:"chest-not-configured"`
	InvalidBlock       string `yaml:"invalid-block"`
}

// CommandMessages are shown by the /cchest command.
type CommandMessages struct {
	NoPermission  string `yaml:"no-permission"`
	StickReceived string `yaml:"stick-received"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		DataDir: "chests",
		Storage: "file",
		Messages: Messages{
			GUI: GUIMessages{
				MainTitle:       "Chest Configuration",
				NameEditorTitle: "Edit Chest Name",

				ButtonName:          "Chest Name",
				DescriptionName:     "Click to edit the chest name",
				ButtonCommand:       "Command",
				DescriptionCommand:  "Click to set the command",
				ButtonCooldown:      "Cooldown",
				DescriptionCooldown: "Click to set cooldown (seconds)",
				ButtonItem:          "Required Item",
				DescriptionItem:     "Place item here to require it",

				DescriptionActivationLeft:  "Activate with a left click",
				DescriptionActivationRight: "Activate with a right click",
				DescriptionActivationBoth:  "Activate with either click",
				DescriptionActivationShift: "Activate while sneaking",
				StatusEnabled:              "Enabled",
				StatusDisabled:             "Disabled",

				ButtonDelete:      "Delete Configuration",
				DescriptionDelete: "Click to delete this configuration",
				ButtonSave:        "Save",
				DescriptionSave:   "Click to save changes",
				ButtonClose:       "Close",
				DescriptionClose:  "Click to close",

				ButtonAddLine:               "Add Line",
				DescriptionAddLine:          "Click to add a new line",
				ButtonToggleVisibility:      "Toggle Visibility",
				DescriptionToggleVisibility: "Click to toggle name visibility",
				StatusVisible:               "Visible",
				StatusHidden:                "Hidden",
				ButtonBack:                  "Back",
				DescriptionBack:             "Click to go back",
			},
			Chat: ChatMessages{
				EnterCommand:    "Please type the command to execute (without /):",
				EnterCooldown:   "Please type the cooldown in seconds:",
				EnterNameLine:   "Please type a line for the chest name:",
				CommandSet:      "Command set to: {command}",
				CooldownSet:     "Cooldown set to: {cooldown} seconds",
				InvalidCooldown: "Invalid cooldown. Please enter a number.",
				NameLineAdded:   "Name line added!",
				CancelInput:     "Configuration cancelled.",
			},
			Activation: ActivationMessages{
				MethodMismatch:  "This chest cannot be activated with this click type.",
				ItemRequired:    "You must be holding the required item to use this chest.",
				OnCooldown:      "This chest is on cooldown. Please wait {time} seconds.",
				CommandExecuted: "Command executed!",
				CommandFailed:   "Failed to execute command.",
			},
			Config: ConfigMessages{
				ChestConfigured:    "Chest configured successfully!",
				ChestDeleted:       "Chest configuration deleted.",
				ChestNotConfigured: "This chest is not configured.",
				InvalidBlock:       "You can only configure container blocks (chests, barrels, etc.).",
			},
			Command: CommandMessages{
				NoPermission:  "You don't have permission to use this command.",
				StickReceived: "You have received the configuration stick!",
			},
		},
	}
}

// LoadConfig reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return conf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("config: %w", err)
	}
	return conf, nil
}

// Format substitutes named placeholders in a template. Pairs alternate
// placeholder name (without braces) and value:
//
//	Format(m.Chat.CommandSet, "command", "heal")
func Format(template string, pairs ...string) string {
	if len(pairs) == 0 {
		return template
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}
