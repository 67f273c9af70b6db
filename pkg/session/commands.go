package session

import (
	"slices"
	"strings"
)

// Root commands.
const (
	cmdAdd       = "add"
	cmdFind      = "find"
	cmdChange    = "change"
	cmdRemove    = "remove"
	cmdBirthdays = "birthdays"
	cmdHelp      = "help"
	cmdMenu      = "menu"
)

// Entity types accepted in type-choice states.
const (
	typeContact = "contact"
	typeNote    = "note"
)

// Fields and sub-actions offered while changing an entity.
const (
	fieldName     = "name"
	fieldPhone    = "phone"
	fieldEmail    = "email"
	fieldBirthday = "birthday"
	fieldTitle    = "title"
	fieldContent  = "content"
	fieldTag      = "tag"

	actionAdd    = "add"
	actionChange = "change"
	actionRemove = "remove"
)

var quitCommands = []string{"exit", "quit", "q"}

func isQuit(cmd string) bool {
	return slices.Contains(quitCommands, cmd)
}

// parseInput splits a line into a lower-cased command and its arguments.
func parseInput(input string) (string, []string) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToLower(parts[0]), parts[1:]
}

var (
	rootHelp = []HelpEntry{
		{Command: cmdAdd, DescriptionKey: "help_add", Example: "add contact"},
		{Command: cmdFind, DescriptionKey: "help_find", Example: "find note"},
		{Command: cmdChange, DescriptionKey: "help_change", Example: "change contact"},
		{Command: cmdRemove, DescriptionKey: "help_remove", Example: "remove note"},
		{Command: cmdBirthdays, DescriptionKey: "help_birthdays", Example: "birthdays 7"},
		{Command: cmdHelp, DescriptionKey: "help_help"},
		{Command: "exit", DescriptionKey: "help_exit", Example: "quit"},
	}

	typeHelp = []HelpEntry{
		{Command: typeContact, DescriptionKey: "help_type_contact"},
		{Command: typeNote, DescriptionKey: "help_type_note"},
		{Command: cmdMenu, DescriptionKey: "help_menu"},
		{Command: "exit", DescriptionKey: "help_exit"},
	}

	contactFieldHelp = []HelpEntry{
		{Command: fieldName, DescriptionKey: "help_field_name"},
		{Command: fieldPhone, DescriptionKey: "help_field_phone"},
		{Command: fieldEmail, DescriptionKey: "help_field_email"},
		{Command: fieldBirthday, DescriptionKey: "help_field_birthday"},
		{Command: cmdMenu, DescriptionKey: "help_done"},
	}

	noteFieldHelp = []HelpEntry{
		{Command: fieldTitle, DescriptionKey: "help_field_title"},
		{Command: fieldContent, DescriptionKey: "help_field_content"},
		{Command: fieldTag, DescriptionKey: "help_field_tag"},
		{Command: cmdMenu, DescriptionKey: "help_done"},
	}

	listActionHelp = []HelpEntry{
		{Command: actionAdd, DescriptionKey: "help_action_add"},
		{Command: actionChange, DescriptionKey: "help_action_change"},
		{Command: actionRemove, DescriptionKey: "help_action_remove"},
		{Command: cmdMenu, DescriptionKey: "help_done"},
	}

	tagActionHelp = []HelpEntry{
		{Command: actionAdd, DescriptionKey: "help_action_add"},
		{Command: actionRemove, DescriptionKey: "help_action_remove"},
		{Command: cmdMenu, DescriptionKey: "help_done"},
	}
)

// HelpFor returns the commands available at path, or nil when the path
// offers nothing beyond menu and exit.
func HelpFor(path []string) []HelpEntry {
	key := strings.Join(path, "/")
	switch key {
	case "":
		return rootHelp
	case cmdAdd, cmdFind, cmdChange, cmdRemove:
		return typeHelp
	case cmdChange + "/" + typeContact:
		return contactFieldHelp
	case cmdChange + "/" + typeContact + "/" + fieldPhone,
		cmdChange + "/" + typeContact + "/" + fieldEmail:
		return listActionHelp
	case cmdChange + "/" + typeNote:
		return noteFieldHelp
	case cmdChange + "/" + typeNote + "/" + fieldTag:
		return tagActionHelp
	default:
		return nil
	}
}

// choicesOf lists the commands of a help table except menu.
func choicesOf(entries []HelpEntry) []string {
	var choices []string
	for _, e := range entries {
		if e.Command != cmdMenu {
			choices = append(choices, e.Command)
		}
	}
	return choices
}
