package utils

import (
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// AuthConfig holds the access lists for the management commands.
type AuthConfig struct {
	Developers  []string `mapstructure:"developers"`
	AdminsRoles []string `mapstructure:"adminsRoles"`
}

// Auth provides methods for authorization checks.
type Auth struct {
	config AuthConfig
}

// NewAuth creates a new Auth instance with the loaded configuration.
func NewAuth() (*Auth, error) {
	var cfg AuthConfig
	if err := viper.UnmarshalKey("commands.auth", &cfg); err != nil {
		return nil, err
	}
	return &Auth{config: cfg}, nil
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	for _, devID := range a.config.Developers {
		if userID == devID {
			return true
		}
	}
	return false
}

// IsAdmin checks if a member holds one of the configured admin roles
// or has the Manage Server permission in the guild.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionManageGuild != 0 {
		return true
	}
	for _, adminRoleID := range a.config.AdminsRoles {
		for _, userRoleID := range member.Roles {
			if userRoleID == adminRoleID {
				return true
			}
		}
	}
	return false
}

// CheckPermission checks if the interaction's author has the required
// permission level. Macro management is guild-only, so a missing
// member (a DM invocation) always fails.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate, requiredLevel string) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}

	switch requiredLevel {
	case "developer":
		return a.IsDeveloper(i.Member.User.ID)
	case "admin":
		return a.IsDeveloper(i.Member.User.ID) || a.IsAdmin(i.Member)
	case "guest":
		return true
	default:
		return false
	}
}
