package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"macro-bot/bot"
	"macro-bot/database"
	"macro-bot/macro"
	"macro-bot/models"
	"macro-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// MacroStore is the slice of the store the message path needs.
type MacroStore interface {
	Get(guildID, name string) (*models.Macro, error)
	Bump(guildID, name string) error
}

// Delivery performs the outbound side effects of a fire.
type Delivery interface {
	Reply(msg macro.Message, content string) error
	DirectMessage(userID, content string) error
	DeleteMessage(channelID, messageID string) error
}

// Dispatch runs one inbound message against the guild's macros and
// reports whether one fired. At most one macro fires per message: the
// candidate loop stops at the first fire. A candidate name that no
// longer resolves to a stored record is logged and skipped, never
// fatal — the message must still be checked against the rest.
func Dispatch(store MacroStore, index *macro.Index, delivery Delivery, msg macro.Message) bool {
	if !index.HasGuild(msg.GuildID) {
		return false
	}

	content := strings.ToLower(msg.Content)
	for _, name := range index.Candidates(msg.GuildID, content) {
		m, err := store.Get(msg.GuildID, name)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				utils.Error(msg.GuildID, "dispatch", fmt.Sprintf("Macro '%s' not found.", name))
			} else {
				log.Printf("Error loading macro %q in guild %s: %v", name, msg.GuildID, err)
			}
			continue
		}

		result := macro.Evaluate(m, msg)
		if !result.Fired {
			continue
		}

		// The bump is persisted before delivery and is not rolled back
		// when delivery fails.
		if err := store.Bump(msg.GuildID, name); err != nil {
			log.Printf("Error bumping macro %q in guild %s: %v", name, msg.GuildID, err)
		}

		if result.DeleteTrigger {
			// Best effort: a failed delete must not stop the reply.
			if err := delivery.DeleteMessage(msg.ChannelID, msg.ID); err != nil {
				log.Printf("Error deleting trigger message %s: %v", msg.ID, err)
			}
		}

		if result.DM {
			err = delivery.DirectMessage(msg.AuthorID, result.Response)
		} else {
			err = delivery.Reply(msg, result.Response)
		}
		if err != nil {
			log.Printf("Error delivering macro %q response: %v", name, err)
		}
		return true
	}
	return false
}

// sessionDelivery sends through the live Discord session.
type sessionDelivery struct {
	s *discordgo.Session
}

func (d sessionDelivery) Reply(msg macro.Message, content string) error {
	// Reply in the originating channel without pinging the author.
	_, err := d.s.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Content: content,
		Reference: &discordgo.MessageReference{
			MessageID: msg.ID,
			ChannelID: msg.ChannelID,
			GuildID:   msg.GuildID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{RepliedUser: false},
	})
	return err
}

func (d sessionDelivery) DirectMessage(userID, content string) error {
	channel, err := d.s.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = d.s.ChannelMessageSend(channel.ID, content)
	return err
}

func (d sessionDelivery) DeleteMessage(channelID, messageID string) error {
	return d.s.ChannelMessageDelete(channelID, messageID)
}

// MessageCreate is called for every new message the bot can see.
func MessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore the bot's own messages and other bots, or replies
		// could trigger macros in a loop.
		if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
			return
		}
		// Macros are guild-scoped; DMs carry no guild.
		if m.GuildID == "" {
			return
		}

		Dispatch(b.Store, b.Index, sessionDelivery{s: s}, macro.Message{
			ID:        m.ID,
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			AuthorID:  m.Author.ID,
			Content:   m.Content,
		})
	}
}
