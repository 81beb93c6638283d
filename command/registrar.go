package command

import "macro-bot/bot"

// AllCommands holds all the command instances.
var AllCommands = []bot.Command{
	&MacroCommand{},
}
