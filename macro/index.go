package macro

import (
	"sort"
	"strings"
	"sync/atomic"

	"macro-bot/models"
)

// guildTriggers maps lowercased trigger text to macro name, per guild.
// Guilds without macros have no entry at all.
type guildTriggers map[string]map[string]string

// Index is the per-guild trigger cache consulted on every inbound
// message before any database read. It is a candidate filter only:
// entries are keyed on lowercased trigger text regardless of each
// macro's case sensitivity, and a hit still has to pass Evaluate.
//
// Rebuild replaces the whole structure through an atomic pointer, so
// concurrent message handlers never observe a half-built map.
type Index struct {
	triggers atomic.Pointer[guildTriggers]
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	idx := &Index{}
	idx.triggers.Store(&guildTriggers{})
	return idx
}

// Rebuild recomputes the cache from the full macro list and swaps it
// in. When two macros in one guild share a lowercased trigger, the
// later one in the list wins; callers pass macros in creation order,
// so the winner is deterministic.
func (idx *Index) Rebuild(macros []models.Macro) {
	triggers := guildTriggers{}
	for _, m := range macros {
		guild := triggers[m.GuildID]
		if guild == nil {
			guild = make(map[string]string)
			triggers[m.GuildID] = guild
		}
		for _, t := range m.Triggers {
			guild[strings.ToLower(t)] = m.Name
		}
	}
	idx.triggers.Store(&triggers)
}

// HasGuild reports whether the guild has any macros at all. Used as
// the cheap first reject on the message path.
func (idx *Index) HasGuild(guildID string) bool {
	_, ok := (*idx.triggers.Load())[guildID]
	return ok
}

// Candidates returns the names of macros whose trigger text occurs in
// the lowercased message content. Names are deduplicated and ordered
// by trigger text, keeping "first candidate wins" deterministic since
// Go randomizes map iteration.
func (idx *Index) Candidates(guildID, loweredContent string) []string {
	guild, ok := (*idx.triggers.Load())[guildID]
	if !ok {
		return nil
	}

	hits := make([]string, 0, len(guild))
	for trigger := range guild {
		if strings.Contains(loweredContent, trigger) {
			hits = append(hits, trigger)
		}
	}
	sort.Strings(hits)

	var names []string
	seen := make(map[string]bool)
	for _, trigger := range hits {
		name := guild[trigger]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
