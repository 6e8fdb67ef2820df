// Package storage is the per-guild settings store. Each guild maps to one
// JSON record in a file-backed datastore: disabled commands, command-log and
// modlog channel settings, and moderator notes. Case records live in the
// ledger store, not here.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"
)

type Storage struct {
	ds *datastore.DataStore
}

// Record is the persisted per-guild settings document.
type Record struct {
	CommandsDisabled []string          `json:"disabled_commands"`
	LoggingEnabled   bool              `json:"logging_enabled"`
	LogChannelID     string            `json:"log_channel"`
	ModLogEnabled    bool              `json:"modlogs_enabled"`
	ModLogChannelID  string            `json:"modlog_channel"`
	Notes            map[string]string `json:"notes"` // key = userID
}

// GuildPolicy is the read view the dispatcher and ledger consult. A guild
// with no stored record gets the zero value: nothing disabled, logging off.
type GuildPolicy struct {
	GuildID          string
	DisabledCommands []string
	LoggingEnabled   bool
	LogChannelID     string
	ModLogEnabled    bool
	ModLogChannelID  string
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord returns the guild's record, creating an empty one
// if the guild has never been seen.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		newRecord := &Record{Notes: map[string]string{}}
		s.ds.Add(guildID, newRecord)
		return newRecord, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}

	if record.Notes == nil {
		record.Notes = map[string]string{}
	}

	return &record, nil
}

// GuildPolicy assembles the read view for one guild.
func (s *Storage) GuildPolicy(guildID string) (GuildPolicy, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return GuildPolicy{GuildID: guildID}, err
	}
	return GuildPolicy{
		GuildID:          guildID,
		DisabledCommands: record.CommandsDisabled,
		LoggingEnabled:   record.LoggingEnabled,
		LogChannelID:     record.LogChannelID,
		ModLogEnabled:    record.ModLogEnabled,
		ModLogChannelID:  record.ModLogChannelID,
	}, nil
}
