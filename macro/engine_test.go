package macro

import (
	"testing"

	"macro-bot/models"

	"github.com/stretchr/testify/assert"
)

func testMacro(mode models.MatchMode, triggers ...string) *models.Macro {
	return &models.Macro{
		GuildID:   "guild",
		Name:      "test",
		Triggers:  triggers,
		Responses: []string{"Hello!"},
		MatchMode: mode,
	}
}

func testMessage(content string) Message {
	return Message{
		ID:        "1",
		GuildID:   "guild",
		ChannelID: "42",
		AuthorID:  "100",
		Content:   content,
	}
}

func TestEvaluateMatchModes(t *testing.T) {
	tests := []struct {
		name    string
		mode    models.MatchMode
		trigger string
		content string
		fired   bool
	}{
		{"full exact", models.MatchFull, "ping", "ping", true},
		{"full superstring does not match", models.MatchFull, "ping", "ping pong", false},
		{"start at boundary", models.MatchStart, "hello", "hello world", true},
		{"start in middle does not match", models.MatchStart, "world", "hello world again", false},
		{"end at boundary", models.MatchEnd, "bye", "ok bye", true},
		{"end in middle does not match", models.MatchEnd, "ok", "ok bye", false},
		{"any substring", models.MatchAny, "hi", "Hi there", true},
		{"any inside word", models.MatchAny, "hi", "Hiya", true},
		{"any absent", models.MatchAny, "hi", "good morning", false},
		{"unknown mode never fires", models.MatchMode("WORD"), "hi", "hi", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(testMacro(tt.mode, tt.trigger), testMessage(tt.content))
			assert.Equal(t, tt.fired, result.Fired)
			if tt.fired {
				assert.Equal(t, "Hello!", result.Response)
			}
		})
	}
}

func TestEvaluateCaseSensitivity(t *testing.T) {
	m := testMacro(models.MatchFull, "Ping")

	// Insensitive by default: any casing of either side matches.
	assert.True(t, Evaluate(m, testMessage("PING")).Fired)
	assert.True(t, Evaluate(m, testMessage("ping")).Fired)

	m.Sensitive = true
	assert.False(t, Evaluate(m, testMessage("PING")).Fired)
	assert.True(t, Evaluate(m, testMessage("Ping")).Fired)
}

func TestEvaluateFirstTriggerWins(t *testing.T) {
	m := testMacro(models.MatchAny, "nothing", "there", "hi")
	result := Evaluate(m, testMessage("hi there"))
	assert.True(t, result.Fired)
}

func TestEvaluateChannelScoping(t *testing.T) {
	m := testMacro(models.MatchAny, "hi")
	m.Channels = []string{"42"}
	assert.True(t, Evaluate(m, testMessage("hi")).Fired)

	m.Channels = []string{"43"}
	assert.False(t, Evaluate(m, testMessage("hi")).Fired, "trigger match must not override channel scoping")
}

func TestEvaluateUserScoping(t *testing.T) {
	m := testMacro(models.MatchAny, "hi")
	m.Users = []string{"100"}
	assert.True(t, Evaluate(m, testMessage("hi")).Fired)

	m.Users = []string{"200"}
	assert.False(t, Evaluate(m, testMessage("hi")).Fired)
}

func TestEvaluateResponseFlags(t *testing.T) {
	m := testMacro(models.MatchAny, "hi")
	m.DM = true
	m.DeleteTrigger = true

	result := Evaluate(m, testMessage("hi"))
	assert.True(t, result.Fired)
	assert.True(t, result.DM)
	assert.True(t, result.DeleteTrigger)
}

func TestEvaluatePicksAConfiguredResponse(t *testing.T) {
	m := testMacro(models.MatchAny, "hi")
	m.Responses = []string{"a", "b", "c"}

	for i := 0; i < 20; i++ {
		result := Evaluate(m, testMessage("hi"))
		assert.True(t, result.Fired)
		assert.Contains(t, m.Responses, result.Response)
	}
}
