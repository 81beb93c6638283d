package macro

import (
	"testing"

	"macro-bot/models"

	"github.com/stretchr/testify/assert"
)

func TestIndexHasGuild(t *testing.T) {
	idx := NewIndex()
	assert.False(t, idx.HasGuild("g1"), "empty index knows no guilds")

	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "hello", Triggers: []string{"hi"}},
	})
	assert.True(t, idx.HasGuild("g1"))
	assert.False(t, idx.HasGuild("g2"), "guilds without macros have no entry")
}

func TestIndexCandidates(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "hello", Triggers: []string{"Hi", "hey"}},
		{GuildID: "g1", Name: "bye", Triggers: []string{"goodbye"}},
		{GuildID: "g2", Name: "other", Triggers: []string{"hi"}},
	})

	// Triggers are cached lowercased; lookups take lowercased content.
	assert.Equal(t, []string{"hello"}, idx.Candidates("g1", "hi there"))
	assert.Equal(t, []string{"bye"}, idx.Candidates("g1", "goodbye all"))
	assert.Empty(t, idx.Candidates("g1", "nothing relevant"))
	assert.Empty(t, idx.Candidates("g3", "hi"))
}

func TestIndexCandidatesDeduplicatesNames(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "hello", Triggers: []string{"hi", "hiya"}},
	})

	// Both triggers occur in the content but the macro shows up once.
	assert.Equal(t, []string{"hello"}, idx.Candidates("g1", "hiya folks"))
}

func TestIndexLastWriteWinsOnSharedTrigger(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "first", Triggers: []string{"hi"}},
		{GuildID: "g1", Name: "second", Triggers: []string{"HI"}},
	})

	// One entry per lowercased trigger; the later macro owns it.
	assert.Equal(t, []string{"second"}, idx.Candidates("g1", "hi"))
}

func TestIndexCandidatesDeterministicOrder(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "zulu", Triggers: []string{"aaa"}},
		{GuildID: "g1", Name: "alpha", Triggers: []string{"bbb"}},
	})

	// Ordered by trigger text, not by name or map iteration.
	for i := 0; i < 10; i++ {
		assert.Equal(t, []string{"zulu", "alpha"}, idx.Candidates("g1", "aaa bbb"))
	}
}

func TestIndexRebuildReplacesOldEntries(t *testing.T) {
	idx := NewIndex()
	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "hello", Triggers: []string{"hi"}},
	})
	idx.Rebuild([]models.Macro{
		{GuildID: "g1", Name: "hello", Triggers: []string{"hey"}},
	})

	assert.Empty(t, idx.Candidates("g1", "hi"))
	assert.Equal(t, []string{"hello"}, idx.Candidates("g1", "hey"))

	// Rebuilding with nothing drops the guild entirely.
	idx.Rebuild(nil)
	assert.False(t, idx.HasGuild("g1"))
}
