package database

import (
	"path/filepath"
	"testing"

	"macro-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *MacroDB {
	t.Helper()
	mdb, err := InitDB(filepath.Join(t.TempDir(), "macros.db"))
	require.NoError(t, err)
	t.Cleanup(mdb.Close)
	return mdb
}

func sampleMacro() models.Macro {
	return models.Macro{
		GuildID:   "g1",
		Name:      "hello",
		Triggers:  []string{"hi", "hey"},
		Responses: []string{"Hello!"},
		MatchMode: models.MatchAny,
	}
}

func TestAddAndGet(t *testing.T) {
	mdb := testDB(t)

	created, err := mdb.Add(sampleMacro())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Zero(t, created.Counter)

	got, err := mdb.Get("g1", "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "hey"}, got.Triggers)
	assert.Equal(t, []string{"Hello!"}, got.Responses)
	assert.Equal(t, models.MatchAny, got.MatchMode)
	assert.Nil(t, got.Channels)
	assert.Nil(t, got.Users)
}

func TestAddDuplicateName(t *testing.T) {
	mdb := testDB(t)

	_, err := mdb.Add(sampleMacro())
	require.NoError(t, err)

	_, err = mdb.Add(sampleMacro())
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same name in another guild is fine.
	other := sampleMacro()
	other.GuildID = "g2"
	_, err = mdb.Add(other)
	assert.NoError(t, err)
}

func TestAddValidation(t *testing.T) {
	mdb := testDB(t)

	m := sampleMacro()
	m.Triggers = nil
	_, err := mdb.Add(m)
	assert.ErrorIs(t, err, ErrValidation)

	m = sampleMacro()
	m.Responses = nil
	_, err = mdb.Add(m)
	assert.ErrorIs(t, err, ErrValidation)

	m = sampleMacro()
	m.Triggers = []string{""}
	_, err = mdb.Add(m)
	assert.ErrorIs(t, err, ErrValidation, "an empty trigger would vacuously match everything")

	m = sampleMacro()
	m.MatchMode = "WORD"
	_, err = mdb.Add(m)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetMissing(t *testing.T) {
	mdb := testDB(t)

	_, err := mdb.Get("g1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartial(t *testing.T) {
	mdb := testDB(t)
	_, err := mdb.Add(sampleMacro())
	require.NoError(t, err)

	responses := []string{"new"}
	updated, err := mdb.Update("g1", "hello", models.MacroUpdate{Responses: &responses})
	require.NoError(t, err)

	// Only responses changed; everything else kept its value.
	assert.Equal(t, []string{"new"}, updated.Responses)
	assert.Equal(t, []string{"hi", "hey"}, updated.Triggers)
	assert.Equal(t, models.MatchAny, updated.MatchMode)
	assert.False(t, updated.Sensitive)
}

func TestUpdateExplicitFalse(t *testing.T) {
	mdb := testDB(t)
	m := sampleMacro()
	m.DM = true
	m.Sensitive = true
	_, err := mdb.Add(m)
	require.NoError(t, err)

	// Omitted booleans stay; an explicit false flips.
	dm := false
	updated, err := mdb.Update("g1", "hello", models.MacroUpdate{DM: &dm})
	require.NoError(t, err)
	assert.False(t, updated.DM)
	assert.True(t, updated.Sensitive)
}

func TestUpdateClearsScoping(t *testing.T) {
	mdb := testDB(t)
	m := sampleMacro()
	m.Channels = []string{"42"}
	_, err := mdb.Add(m)
	require.NoError(t, err)

	empty := []string{}
	updated, err := mdb.Update("g1", "hello", models.MacroUpdate{Channels: &empty})
	require.NoError(t, err)
	assert.Empty(t, updated.Channels)
}

func TestUpdateRejectsEmptyRequiredFields(t *testing.T) {
	mdb := testDB(t)
	_, err := mdb.Add(sampleMacro())
	require.NoError(t, err)

	empty := []string{}
	_, err = mdb.Update("g1", "hello", models.MacroUpdate{Triggers: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = mdb.Update("g1", "hello", models.MacroUpdate{Responses: &empty})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateMissingAndEmpty(t *testing.T) {
	mdb := testDB(t)

	_, err := mdb.Update("g1", "hello", models.MacroUpdate{})
	assert.ErrorIs(t, err, ErrValidation)

	dm := true
	_, err = mdb.Update("g1", "hello", models.MacroUpdate{DM: &dm})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	mdb := testDB(t)
	_, err := mdb.Add(sampleMacro())
	require.NoError(t, err)

	removed, err := mdb.Remove("g1", "hello")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Removing again is a 0-count outcome, not an error.
	removed, err = mdb.Remove("g1", "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestBump(t *testing.T) {
	mdb := testDB(t)
	_, err := mdb.Add(sampleMacro())
	require.NoError(t, err)

	require.NoError(t, mdb.Bump("g1", "hello"))
	require.NoError(t, mdb.Bump("g1", "hello"))

	got, err := mdb.Get("g1", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Counter)

	assert.ErrorIs(t, mdb.Bump("g1", "nope"), ErrNotFound)
}

func TestGetAll(t *testing.T) {
	mdb := testDB(t)

	first := sampleMacro()
	_, err := mdb.Add(first)
	require.NoError(t, err)

	second := sampleMacro()
	second.Name = "bye"
	second.Triggers = []string{"goodbye"}
	_, err = mdb.Add(second)
	require.NoError(t, err)

	other := sampleMacro()
	other.GuildID = "g2"
	_, err = mdb.Add(other)
	require.NoError(t, err)

	guild, err := mdb.GetAll("g1")
	require.NoError(t, err)
	require.Len(t, guild, 2)
	// Creation order, which the trigger index depends on.
	assert.Equal(t, "hello", guild[0].Name)
	assert.Equal(t, "bye", guild[1].Name)

	all, err := mdb.GetAll("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
