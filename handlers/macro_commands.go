package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"macro-bot/bot"
	"macro-bot/database"
	"macro-bot/models"
	"macro-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleMacro routes the /macro subcommands.
func HandleMacro(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		options := i.ApplicationCommandData().Options
		if len(options) == 0 {
			return
		}
		sub := options[0]

		switch sub.Name {
		case "add":
			handleMacroAdd(b, s, i, sub)
		case "update":
			handleMacroUpdate(b, s, i, sub)
		case "remove":
			handleMacroRemove(b, s, i, sub)
		case "list":
			handleMacroList(b, s, i)
		}
	}
}

// subOptionMap indexes a subcommand's options by name.
func subOptionMap(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, opt := range sub.Options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

// splitList parses a |-separated option value into a list. A single
// "-" yields an empty, non-nil list, which the store reads as an
// explicit clear for the scoping fields.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "-" {
		return []string{}
	}
	parts := strings.Split(value, "|")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

// respond sends an ephemeral interaction response.
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

// storeErrorMessage maps store errors to user-facing replies.
func storeErrorMessage(err error) string {
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return "Macro with that name already exists."
	case errors.Is(err, database.ErrNotFound):
		return "Macro with that name does not exist."
	case errors.Is(err, database.ErrValidation):
		return fmt.Sprintf("Macro could not be saved:\n> `%s`", err)
	default:
		return "Internal error, see the bot log."
	}
}

func handleMacroAdd(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	optionMap := subOptionMap(sub)

	m := models.Macro{GuildID: i.GuildID}
	if opt, ok := optionMap["name"]; ok {
		m.Name = opt.StringValue()
	}
	if opt, ok := optionMap["triggers"]; ok {
		m.Triggers = splitList(opt.StringValue())
	}
	if opt, ok := optionMap["responses"]; ok {
		m.Responses = splitList(opt.StringValue())
	}
	if opt, ok := optionMap["match"]; ok {
		m.MatchMode = models.MatchMode(strings.ToUpper(opt.StringValue()))
	}
	if opt, ok := optionMap["dm"]; ok {
		m.DM = opt.BoolValue()
	}
	if opt, ok := optionMap["delete_trigger"]; ok {
		m.DeleteTrigger = opt.BoolValue()
	}
	if opt, ok := optionMap["sensitive"]; ok {
		m.Sensitive = opt.BoolValue()
	}
	if opt, ok := optionMap["channels"]; ok {
		m.Channels = splitList(opt.StringValue())
	}
	if opt, ok := optionMap["users"]; ok {
		m.Users = splitList(opt.StringValue())
	}

	created, err := b.Store.Add(m)
	if err != nil {
		respond(s, i, storeErrorMessage(err))
		return
	}

	if err := b.RefreshIndex(); err != nil {
		log.Printf("Error rebuilding trigger index after add: %v", err)
	}
	respond(s, i, fmt.Sprintf("Macro **%s** created.", created.Name))
	utils.Info(i.GuildID, "add", fmt.Sprintf("New %s-matched macro '%s'.", created.MatchMode, created.Name))
}

func handleMacroUpdate(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	optionMap := subOptionMap(sub)

	var name string
	if opt, ok := optionMap["name"]; ok {
		name = opt.StringValue()
	}

	// Only options the caller actually supplied make it into the
	// update; everything else keeps its stored value.
	var upd models.MacroUpdate
	if opt, ok := optionMap["triggers"]; ok {
		list := splitList(opt.StringValue())
		upd.Triggers = &list
	}
	if opt, ok := optionMap["responses"]; ok {
		list := splitList(opt.StringValue())
		upd.Responses = &list
	}
	if opt, ok := optionMap["match"]; ok {
		mode := models.MatchMode(strings.ToUpper(opt.StringValue()))
		upd.MatchMode = &mode
	}
	if opt, ok := optionMap["dm"]; ok {
		v := opt.BoolValue()
		upd.DM = &v
	}
	if opt, ok := optionMap["delete_trigger"]; ok {
		v := opt.BoolValue()
		upd.DeleteTrigger = &v
	}
	if opt, ok := optionMap["sensitive"]; ok {
		v := opt.BoolValue()
		upd.Sensitive = &v
	}
	if opt, ok := optionMap["channels"]; ok {
		list := splitList(opt.StringValue())
		upd.Channels = &list
	}
	if opt, ok := optionMap["users"]; ok {
		list := splitList(opt.StringValue())
		upd.Users = &list
	}

	if upd.Empty() {
		respond(s, i, "No arguments specified.")
		return
	}

	updated, err := b.Store.Update(i.GuildID, name, upd)
	if err != nil {
		respond(s, i, storeErrorMessage(err))
		return
	}

	if err := b.RefreshIndex(); err != nil {
		log.Printf("Error rebuilding trigger index after update: %v", err)
	}
	respond(s, i, fmt.Sprintf("Macro **%s** updated.", updated.Name))
	utils.Info(i.GuildID, "update", fmt.Sprintf("Updated %s-matched macro '%s'.", updated.MatchMode, updated.Name))
}

func handleMacroRemove(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	optionMap := subOptionMap(sub)

	var name string
	if opt, ok := optionMap["name"]; ok {
		name = opt.StringValue()
	}

	removed, err := b.Store.Remove(i.GuildID, name)
	if err != nil {
		respond(s, i, storeErrorMessage(err))
		return
	}
	if removed == 0 {
		respond(s, i, "Macro with that name does not exist.")
		return
	}

	if err := b.RefreshIndex(); err != nil {
		log.Printf("Error rebuilding trigger index after remove: %v", err)
	}
	respond(s, i, fmt.Sprintf("Macro **%s** removed.", name))
	utils.Info(i.GuildID, "remove", fmt.Sprintf("Removed macro '%s'.", name))
}

func handleMacroList(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	macros, err := b.Store.GetAll(i.GuildID)
	if err != nil {
		log.Printf("Error listing macros for guild %s: %v", i.GuildID, err)
		respond(s, i, "Internal error, see the bot log.")
		return
	}
	if len(macros) == 0 {
		respond(s, i, "This server does not have defined any macros.")
		return
	}

	// The table can outgrow Discord's 2000-character message cap, so
	// it is sent page by page: the first as the interaction response,
	// the rest as follow-ups.
	pages := renderMacroTable(macros)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "```" + pages[0] + "```",
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
		return
	}
	for _, page := range pages[1:] {
		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: "```" + page + "```",
		})
		if err != nil {
			log.Printf("Error sending macro list page: %v", err)
		}
	}
}

// tablePageLimit caps one page of the macro table, leaving room for
// the code-block fences under Discord's 2000-character message cap.
const tablePageLimit = 1900

// renderMacroTable renders the guild's macros as aligned text table
// pages. Every page repeats the header row and fits in one message;
// there is always at least one page.
func renderMacroTable(macros []models.Macro) []string {
	headers := []string{"Macro name", "Match", "Invocations", "Triggers"}
	rows := make([][]string, 0, len(macros))
	for _, m := range macros {
		rows = append(rows, []string{
			m.Name,
			string(m.MatchMode),
			fmt.Sprintf("%d", m.Counter),
			strings.Join(m.Triggers, "|"),
		})
	}

	widths := make([]int, len(headers))
	for col, h := range headers {
		widths[col] = len(h)
	}
	for _, row := range rows {
		for col, cell := range row {
			if len(cell) > widths[col] {
				widths[col] = len(cell)
			}
		}
	}

	formatRow := func(row []string) string {
		var sb strings.Builder
		for col, cell := range row {
			if col > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(fmt.Sprintf("%-*s", widths[col], cell))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	headerLine := formatRow(headers)
	var pages []string
	var sb strings.Builder
	sb.WriteString(headerLine)
	for _, row := range rows {
		line := formatRow(row)
		// Start a new page rather than overflow, but never emit a
		// page holding only the header.
		if sb.Len()+len(line) > tablePageLimit && sb.Len() > len(headerLine) {
			pages = append(pages, sb.String())
			sb.Reset()
			sb.WriteString(headerLine)
		}
		sb.WriteString(line)
	}
	return append(pages, sb.String())
}
