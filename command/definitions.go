package command

import (
	"macro-bot/models"

	"github.com/bwmarrin/discordgo"
)

// MacroCommand defines the structure for the /macro command group.
type MacroCommand struct{}

// matchChoices builds the choice list for the match option.
func matchChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(models.AllMatchModes))
	for i, mode := range models.AllMatchModes {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{
			Name:  string(mode),
			Value: string(mode),
		}
	}
	return choices
}

// macroFieldOptions returns the shared macro field options. Required
// fields (triggers, responses, match) are only mandatory for add;
// update accepts any subset and leaves the rest untouched.
func macroFieldOptions(required bool) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Name:        "triggers",
			Description: "Trigger phrases, separated by |",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    required,
		},
		{
			Name:        "responses",
			Description: "Possible answers, separated by |; one is picked at random",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    required,
		},
		{
			Name:        "match",
			Description: "How a trigger must relate to the message content",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    required,
			Choices:     matchChoices(),
		},
		{
			Name:        "dm",
			Description: "Send the reply as a direct message instead of in the channel",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
		{
			Name:        "delete_trigger",
			Description: "Delete the triggering message",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
		{
			Name:        "sensitive",
			Description: "Match case-sensitively",
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Required:    false,
		},
		{
			Name:        "channels",
			Description: "Channel IDs separated by |; only fire there. Use - to clear",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
		{
			Name:        "users",
			Description: "User IDs separated by |; only fire for them. Use - to clear",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
	}
}

// Definition returns the application command definition.
func (c *MacroCommand) Definition() *discordgo.ApplicationCommand {
	nameOption := func(autocomplete bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Name:         "name",
			Description:  "Macro name, unique within the server",
			Type:         discordgo.ApplicationCommandOptionString,
			Required:     true,
			Autocomplete: autocomplete,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        "macro",
		Description: "Manage automatic bot replies",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "add",
				Description: "Add a new macro",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: append(
					[]*discordgo.ApplicationCommandOption{nameOption(false)},
					macroFieldOptions(true)...,
				),
			},
			{
				Name:        "update",
				Description: "Update an existing macro; only supplied fields change",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: append(
					[]*discordgo.ApplicationCommandOption{nameOption(true)},
					macroFieldOptions(false)...,
				),
			},
			{
				Name:        "remove",
				Description: "Remove a macro",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					nameOption(true),
				},
			},
			{
				Name:        "list",
				Description: "List this server's macros",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
			},
		},
	}
}
