package main

import (
	"macro-bot/bot"
	"macro-bot/command"
	"macro-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.AllCommands)
}
