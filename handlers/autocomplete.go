package handlers

import (
	"log"
	"strings"

	"macro-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// HandleAutocomplete handles all autocomplete interactions.
func HandleAutocomplete(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		data := i.ApplicationCommandData()
		switch data.Name {
		case "macro":
			if len(data.Options) == 0 {
				return
			}
			for _, opt := range data.Options[0].Options {
				if opt.Name == "name" && opt.Focused {
					handleMacroNameAutocomplete(b, s, i, opt.StringValue())
				}
			}
		}
	}
}

// handleMacroNameAutocomplete offers the guild's macro names matching
// the typed prefix, for the update and remove subcommands.
func handleMacroNameAutocomplete(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, typed string) {
	macros, err := b.Store.GetAll(i.GuildID)
	if err != nil {
		log.Printf("Error loading macros for autocomplete: %v", err)
		return
	}

	typed = strings.ToLower(typed)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(macros))
	for _, m := range macros {
		if typed != "" && !strings.HasPrefix(strings.ToLower(m.Name), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  m.Name,
			Value: m.Name,
		})
		// Discord caps autocomplete responses at 25 choices.
		if len(choices) == 25 {
			break
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		log.Printf("Error responding to autocomplete interaction: %v", err)
	}
}
