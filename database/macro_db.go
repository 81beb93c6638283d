package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"macro-bot/models"

	"github.com/mattn/go-sqlite3"
)

const macroColumns = `id, guild_id, name, triggers, responses, match_mode,
	sensitive, dm, delete_trigger, channels, users, counter`

// validateMacro enforces the record invariants before any write:
// non-empty name, at least one trigger and one response, no empty
// trigger or response strings, and a recognized match mode.
func validateMacro(m models.Macro) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if len(m.Triggers) == 0 {
		return fmt.Errorf("%w: at least one trigger is required", ErrValidation)
	}
	if len(m.Responses) == 0 {
		return fmt.Errorf("%w: at least one response is required", ErrValidation)
	}
	for _, t := range m.Triggers {
		if t == "" {
			return fmt.Errorf("%w: triggers must not be empty strings", ErrValidation)
		}
	}
	for _, r := range m.Responses {
		if r == "" {
			return fmt.Errorf("%w: responses must not be empty strings", ErrValidation)
		}
	}
	if !m.MatchMode.Valid() {
		return fmt.Errorf("%w: unknown match mode %q", ErrValidation, m.MatchMode)
	}
	return nil
}

// marshalList converts a string slice to its JSON column value.
// A nil or empty slice maps to NULL, meaning "unscoped".
func marshalList(list []string) (any, error) {
	if len(list) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal list column: %w", err)
	}
	return string(data), nil
}

func unmarshalList(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list column: %w", err)
	}
	return list, nil
}

// scanMacro reads one macro row. Works for both *sql.Row and *sql.Rows.
func scanMacro(row interface{ Scan(...any) error }) (*models.Macro, error) {
	var m models.Macro
	var triggers, responses, channels, users sql.NullString

	err := row.Scan(&m.ID, &m.GuildID, &m.Name, &triggers, &responses,
		&m.MatchMode, &m.Sensitive, &m.DM, &m.DeleteTrigger,
		&channels, &users, &m.Counter)
	if err != nil {
		return nil, err
	}
	if m.Triggers, err = unmarshalList(triggers); err != nil {
		return nil, err
	}
	if m.Responses, err = unmarshalList(responses); err != nil {
		return nil, err
	}
	if m.Channels, err = unmarshalList(channels); err != nil {
		return nil, err
	}
	if m.Users, err = unmarshalList(users); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetAll returns all macros for a guild, or for every guild when
// guildID is empty. Rows come back in creation order, which the
// trigger index relies on for deterministic last-write-wins.
func (mdb *MacroDB) GetAll(guildID string) ([]models.Macro, error) {
	query := "SELECT " + macroColumns + " FROM macros ORDER BY id"
	args := []any{}
	if guildID != "" {
		query = "SELECT " + macroColumns + " FROM macros WHERE guild_id = ? ORDER BY id"
		args = append(args, guildID)
	}

	rows, err := mdb.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query macros: %w", err)
	}
	defer rows.Close()

	var macros []models.Macro
	for rows.Next() {
		m, err := scanMacro(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan macro row: %w", err)
		}
		macros = append(macros, *m)
	}
	return macros, rows.Err()
}

// Get returns the macro named name in the guild, or ErrNotFound.
func (mdb *MacroDB) Get(guildID, name string) (*models.Macro, error) {
	query := "SELECT " + macroColumns + " FROM macros WHERE guild_id = ? AND name = ?"
	m, err := scanMacro(mdb.db.QueryRow(query, guildID, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q in guild %s", ErrNotFound, name, guildID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get macro %q: %w", name, err)
	}
	return m, nil
}

// Add inserts a new macro. It fails with ErrDuplicate if the guild
// already has a macro with that name, and with ErrValidation if the
// record violates an invariant. The stored record is returned.
func (mdb *MacroDB) Add(m models.Macro) (*models.Macro, error) {
	if err := validateMacro(m); err != nil {
		return nil, err
	}

	triggers, err := marshalList(m.Triggers)
	if err != nil {
		return nil, err
	}
	responses, err := marshalList(m.Responses)
	if err != nil {
		return nil, err
	}
	channels, err := marshalList(m.Channels)
	if err != nil {
		return nil, err
	}
	users, err := marshalList(m.Users)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO macros (guild_id, name, triggers, responses, match_mode,
		sensitive, dm, delete_trigger, channels, users)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := mdb.db.Exec(query, m.GuildID, m.Name, triggers, responses,
		m.MatchMode, m.Sensitive, m.DM, m.DeleteTrigger, channels, users); err != nil {
		// The UNIQUE(guild_id, name) constraint is the duplicate
		// check; a read-then-insert would race concurrent adds.
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: %q in guild %s", ErrDuplicate, m.Name, m.GuildID)
		}
		return nil, fmt.Errorf("failed to insert macro %q: %w", m.Name, err)
	}

	return mdb.Get(m.GuildID, m.Name)
}

// Update applies a partial update to an existing macro. Only non-nil
// fields of upd change; the rest keep their stored values. Setting
// triggers or responses to an empty list is a validation error, while
// an empty channels or users list clears the scoping. The counter is
// never touched here.
func (mdb *MacroDB) Update(guildID, name string, upd models.MacroUpdate) (*models.Macro, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	m, err := mdb.Get(guildID, name)
	if err != nil {
		return nil, err
	}

	if upd.Triggers != nil {
		m.Triggers = *upd.Triggers
	}
	if upd.Responses != nil {
		m.Responses = *upd.Responses
	}
	if upd.DM != nil {
		m.DM = *upd.DM
	}
	if upd.DeleteTrigger != nil {
		m.DeleteTrigger = *upd.DeleteTrigger
	}
	if upd.Sensitive != nil {
		m.Sensitive = *upd.Sensitive
	}
	if upd.MatchMode != nil {
		m.MatchMode = *upd.MatchMode
	}
	if upd.Channels != nil {
		m.Channels = *upd.Channels
	}
	if upd.Users != nil {
		m.Users = *upd.Users
	}

	if err := validateMacro(*m); err != nil {
		return nil, err
	}

	triggers, err := marshalList(m.Triggers)
	if err != nil {
		return nil, err
	}
	responses, err := marshalList(m.Responses)
	if err != nil {
		return nil, err
	}
	channels, err := marshalList(m.Channels)
	if err != nil {
		return nil, err
	}
	users, err := marshalList(m.Users)
	if err != nil {
		return nil, err
	}

	query := `UPDATE macros SET
		triggers = ?, responses = ?, match_mode = ?,
		sensitive = ?, dm = ?, delete_trigger = ?,
		channels = ?, users = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE guild_id = ? AND name = ?`
	if _, err := mdb.db.Exec(query, triggers, responses, m.MatchMode,
		m.Sensitive, m.DM, m.DeleteTrigger, channels, users, guildID, name); err != nil {
		return nil, fmt.Errorf("failed to update macro %q: %w", name, err)
	}

	return mdb.Get(guildID, name)
}

// Remove deletes the named macro and returns how many records were
// removed (0 or 1). Removing a nonexistent macro is not an error.
func (mdb *MacroDB) Remove(guildID, name string) (int, error) {
	result, err := mdb.db.Exec("DELETE FROM macros WHERE guild_id = ? AND name = ?", guildID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to remove macro %q: %w", name, err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

// Bump increments the invocation counter by one. The increment runs as
// a single UPDATE so concurrent fires never lose a count.
func (mdb *MacroDB) Bump(guildID, name string) error {
	query := `UPDATE macros SET counter = counter + 1, updated_at = CURRENT_TIMESTAMP
		WHERE guild_id = ? AND name = ?`
	result, err := mdb.db.Exec(query, guildID, name)
	if err != nil {
		return fmt.Errorf("failed to bump macro %q: %w", name, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%w: %q in guild %s", ErrNotFound, name, guildID)
	}
	return nil
}
