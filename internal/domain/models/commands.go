package models

import "strings"

// CommandType enumerates the queries the owner can send over WhatsApp.
type CommandType string

const (
	CommandSummary CommandType = "summary"
	CommandDates   CommandType = "dates"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed owner query extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// A leading slash is optional and "report" is accepted for summary.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.ToLower(message))
	cmd := Command{Type: CommandUnknown, Raw: message}
	if len(tokens) == 0 {
		return cmd
	}

	switch strings.TrimPrefix(tokens[0], "/") {
	case "summary", "report":
		cmd.Type = CommandSummary
	case string(CommandDates):
		cmd.Type = CommandDates
	case string(CommandHelp), "start":
		cmd.Type = CommandHelp
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
