package models

// MatchMode controls how a trigger phrase must relate to the message
// content for a macro to fire.
type MatchMode string

const (
	MatchFull  MatchMode = "FULL"  // trigger equals the whole message
	MatchStart MatchMode = "START" // message starts with the trigger
	MatchEnd   MatchMode = "END"   // message ends with the trigger
	MatchAny   MatchMode = "ANY"   // trigger appears anywhere in the message
)

// AllMatchModes lists the recognized modes, used for command choices
// and validation.
var AllMatchModes = []MatchMode{MatchFull, MatchStart, MatchEnd, MatchAny}

// Valid reports whether the mode is one of the recognized values.
// Records carrying an unknown mode stay readable; they just never match.
func (m MatchMode) Valid() bool {
	for _, mode := range AllMatchModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Macro is one configured auto-reply rule, unique by (GuildID, Name).
type Macro struct {
	ID            int64     `json:"id"`
	GuildID       string    `json:"guild_id"`
	Name          string    `json:"name"`
	Triggers      []string  `json:"triggers"`
	Responses     []string  `json:"responses"`
	MatchMode     MatchMode `json:"match_mode"`
	Sensitive     bool      `json:"sensitive"`
	DM            bool      `json:"dm"`
	DeleteTrigger bool      `json:"delete_trigger"`
	Channels      []string  `json:"channels"`
	Users         []string  `json:"users"`
	Counter       int64     `json:"counter"`
}

// MacroUpdate is a partial update request. Nil fields are left
// untouched; a non-nil field replaces the stored value, including
// explicit false for the booleans and an empty slice for Channels or
// Users (which clears the scoping). Triggers and Responses may not be
// set to an empty slice.
type MacroUpdate struct {
	Triggers      *[]string
	Responses     *[]string
	DM            *bool
	DeleteTrigger *bool
	Sensitive     *bool
	MatchMode     *MatchMode
	Channels      *[]string
	Users         *[]string
}

// Empty reports whether the update carries no fields at all.
func (u MacroUpdate) Empty() bool {
	return u.Triggers == nil && u.Responses == nil && u.DM == nil &&
		u.DeleteTrigger == nil && u.Sensitive == nil && u.MatchMode == nil &&
		u.Channels == nil && u.Users == nil
}
