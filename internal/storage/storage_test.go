package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "guilds.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGuildPolicyDefaultsForUnknownGuild(t *testing.T) {
	s := newTestStorage(t)

	policy, err := s.GuildPolicy("G1")
	require.NoError(t, err)

	assert.Equal(t, "G1", policy.GuildID)
	assert.Empty(t, policy.DisabledCommands)
	assert.False(t, policy.LoggingEnabled)
	assert.Empty(t, policy.LogChannelID)
	assert.False(t, policy.ModLogEnabled)
	assert.Empty(t, policy.ModLogChannelID)
}

func TestDisableEnableCommand(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.DisableCommand("G1", "warn"))
	require.NoError(t, s.DisableCommand("G1", "warn"), "disabling twice is a no-op")
	require.NoError(t, s.DisableCommand("G1", "purge"))

	disabled, err := s.IsCommandDisabled("G1", "warn")
	require.NoError(t, err)
	assert.True(t, disabled)

	list, err := s.DisabledCommands("G1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"warn", "purge"}, list)

	require.NoError(t, s.EnableCommand("G1", "warn"))
	disabled, err = s.IsCommandDisabled("G1", "warn")
	require.NoError(t, err)
	assert.False(t, disabled)

	// Other guilds are untouched.
	disabled, err = s.IsCommandDisabled("G2", "purge")
	require.NoError(t, err)
	assert.False(t, disabled)
}

func TestLoggingSettings(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.SetLogging("G1", true))
	require.NoError(t, s.SetLogChannel("G1", "C-log"))
	require.NoError(t, s.SetModLog("G1", true))
	require.NoError(t, s.SetModLogChannel("G1", "C-modlog"))

	policy, err := s.GuildPolicy("G1")
	require.NoError(t, err)
	assert.True(t, policy.LoggingEnabled)
	assert.Equal(t, "C-log", policy.LogChannelID)
	assert.True(t, policy.ModLogEnabled)
	assert.Equal(t, "C-modlog", policy.ModLogChannelID)

	require.NoError(t, s.SetLogging("G1", false))
	policy, err = s.GuildPolicy("G1")
	require.NoError(t, err)
	assert.False(t, policy.LoggingEnabled)
	assert.Equal(t, "C-log", policy.LogChannelID, "channel survives toggling off")
}

func TestUserNotes(t *testing.T) {
	s := newTestStorage(t)

	note, err := s.GetUserNote("G1", "U1")
	require.NoError(t, err)
	assert.Empty(t, note)

	require.NoError(t, s.SetUserNote("G1", "U1", "watch this one"))
	require.NoError(t, s.SetUserNote("G1", "U2", "helpful"))

	note, err = s.GetUserNote("G1", "U1")
	require.NoError(t, err)
	assert.Equal(t, "watch this one", note)

	require.NoError(t, s.SetUserNote("G1", "U1", "reformed"))
	note, err = s.GetUserNote("G1", "U1")
	require.NoError(t, err)
	assert.Equal(t, "reformed", note, "new note replaces the old one")
}
