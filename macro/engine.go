package macro

import (
	"math/rand"
	"slices"
	"strings"

	"macro-bot/models"
)

// Message carries the metadata of one inbound message that matching
// needs. Content keeps its original casing; Evaluate folds it itself
// when the macro is case-insensitive.
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	AuthorID  string
	Content   string
}

// Result is the outcome of evaluating one macro against one message.
// Response is only meaningful when Fired is true.
type Result struct {
	Fired         bool
	Response      string
	DM            bool
	DeleteTrigger bool
}

// matches reports whether a single trigger satisfies the macro's match
// mode against the (already case-folded, if applicable) content.
// Unknown modes never match, so a bad stored record stays harmless.
func matches(mode models.MatchMode, trigger, content string) bool {
	switch mode {
	case models.MatchFull:
		return trigger == content
	case models.MatchStart:
		return strings.HasPrefix(content, trigger)
	case models.MatchEnd:
		return strings.HasSuffix(content, trigger)
	case models.MatchAny:
		return strings.Contains(content, trigger)
	default:
		return false
	}
}

// Evaluate decides whether the macro fires for the message. The first
// trigger satisfying the match mode wins; after that the channel and
// user scoping must both pass. On a fire, one response is picked
// uniformly at random.
func Evaluate(m *models.Macro, msg Message) Result {
	content := msg.Content
	triggers := m.Triggers
	if !m.Sensitive {
		content = strings.ToLower(content)
		triggers = make([]string, len(m.Triggers))
		for i, t := range m.Triggers {
			triggers[i] = strings.ToLower(t)
		}
	}

	matched := false
	for _, trigger := range triggers {
		if matches(m.MatchMode, trigger, content) {
			matched = true
			break
		}
	}
	if !matched {
		return Result{}
	}

	// Scoping is checked after the trigger test: a trigger hit in the
	// wrong channel or from the wrong user is still a non-fire.
	if len(m.Channels) > 0 && !slices.Contains(m.Channels, msg.ChannelID) {
		return Result{}
	}
	if len(m.Users) > 0 && !slices.Contains(m.Users, msg.AuthorID) {
		return Result{}
	}

	return Result{
		Fired:         true,
		Response:      m.Responses[rand.Intn(len(m.Responses))],
		DM:            m.DM,
		DeleteTrigger: m.DeleteTrigger,
	}
}
