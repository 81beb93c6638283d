package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

var (
	session   *discordgo.Session
	channelID string
)

// InitLogger initializes the audit logger with a Discord session.
// Macro lifecycle events (created, updated, removed, stale index hits)
// are mirrored to the admin channel so guild admins can follow them.
func InitLogger(s *discordgo.Session) {
	session = s
	channelID = viper.GetString("bot.adminChannelId")
	if channelID == "" {
		log.Println("Warning: bot.adminChannelId is not set in config.yaml. Logging to channel will be disabled.")
	}
}

// Log sends a log message to the admin channel, falling back to the
// process log when no channel is configured.
func Log(level, guildID, operation, details string) {
	if session == nil || channelID == "" {
		log.Printf("[%s] Guild: %s, Operation: %s, Details: %s", level, guildID, operation, details)
		return
	}

	var color int
	switch level {
	case "WARN":
		color = ColorWarn
	case "ERROR":
		color = ColorError
	default:
		color = ColorInfo
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Macro %s", operation),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Guild",
				Value:  guildID,
				Inline: true,
			},
			{
				Name:   "Level",
				Value:  level,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: details,
			},
		},
	}

	_, err := session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		log.Printf("Error sending log message to Discord: %v", err)
	}
}

// Info logs an informational message.
func Info(guildID, operation, details string) {
	Log("INFO", guildID, operation, details)
}

// Warn logs a warning message.
func Warn(guildID, operation, details string) {
	Log("WARN", guildID, operation, details)
}

// Error logs an error message.
func Error(guildID, operation, details string) {
	Log("ERROR", guildID, operation, details)
}
