package storage

import "slices"

// DisableCommand adds a command to the guild's disabled list. Adding a
// command that is already disabled is a no-op.
func (s *Storage) DisableCommand(guildID, command string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	if slices.Contains(record.CommandsDisabled, command) {
		return nil
	}

	record.CommandsDisabled = append(record.CommandsDisabled, command)
	s.ds.Add(guildID, record)
	return nil
}

// EnableCommand removes a command from the guild's disabled list.
func (s *Storage) EnableCommand(guildID, command string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}

	updated := make([]string, 0, len(record.CommandsDisabled))
	for _, c := range record.CommandsDisabled {
		if c != command {
			updated = append(updated, c)
		}
	}
	record.CommandsDisabled = updated
	s.ds.Add(guildID, record)
	return nil
}

// IsCommandDisabled reports whether a command is disabled for the guild.
func (s *Storage) IsCommandDisabled(guildID, command string) (bool, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return false, err
	}
	return slices.Contains(record.CommandsDisabled, command), nil
}

// DisabledCommands returns the guild's disabled command names.
func (s *Storage) DisabledCommands(guildID string) ([]string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsDisabled, nil
}

// SetLogging toggles the command-executed log line for the guild.
func (s *Storage) SetLogging(guildID string, enabled bool) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.LoggingEnabled = enabled
	s.ds.Add(guildID, record)
	return nil
}

// SetLogChannel sets the channel receiving command-executed log lines.
func (s *Storage) SetLogChannel(guildID, channelID string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.LogChannelID = channelID
	s.ds.Add(guildID, record)
	return nil
}

// SetModLog toggles moderation-case notifications for the guild.
func (s *Storage) SetModLog(guildID string, enabled bool) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.ModLogEnabled = enabled
	s.ds.Add(guildID, record)
	return nil
}

// SetModLogChannel sets the channel receiving moderation-case notifications.
func (s *Storage) SetModLogChannel(guildID, channelID string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.ModLogChannelID = channelID
	s.ds.Add(guildID, record)
	return nil
}

// SetUserNote stores the moderator note for a user, replacing any previous
// note. The note text itself lives here; the modification is recorded in the
// case ledger by the caller.
func (s *Storage) SetUserNote(guildID, userID, note string) error {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Notes[userID] = note
	s.ds.Add(guildID, record)
	return nil
}

// GetUserNote returns the note for a user, or "" when none is set.
func (s *Storage) GetUserNote(guildID, userID string) (string, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.Notes[userID], nil
}
