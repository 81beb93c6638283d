package handlers

import (
	"log"

	"macro-bot/bot"
	"macro-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// CommandDispatcher is the central handler for all application command
// interactions. It performs permission checks and then dispatches the
// interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		auth, err := utils.NewAuth()
		if err != nil {
			log.Printf("Failed to create auth instance: %v", err)
			return
		}

		commandPermissions := map[string]string{
			"macro": "admin",
		}

		commandName := i.ApplicationCommandData().Name
		requiredLevel, ok := commandPermissions[commandName]

		if ok {
			if !auth.CheckPermission(i, requiredLevel) {
				respond(s, i, "🚫 You don't have permission to run this command.")
				return
			}
		}

		switch commandName {
		case "macro":
			HandleMacro(b)(s, i)
		default:
			respond(s, i, "🚫 Internal error: unknown command.")
		}
	}
}
