package command

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeoutDuration(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"10s", 10 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"1d", 24 * time.Hour},
		{"2d12h", 60 * time.Hour},
	}
	for _, tc := range cases {
		got, err := parseTimeoutDuration(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseTimeoutDurationCapsAtTwentyEightDays(t *testing.T) {
	got, err := parseTimeoutDuration("90d")
	require.NoError(t, err)
	assert.Equal(t, 28*24*time.Hour, got)
}

func TestParseTimeoutDurationRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "abc", "1w", "h", "10", "1h30", "-5m", "1.5h"} {
		_, err := parseTimeoutDuration(input)
		assert.Error(t, err, input)
	}
}

func TestFindBanMatchesByIDOrUsername(t *testing.T) {
	bans := []*discordgo.GuildBan{
		{User: &discordgo.User{ID: "111", Username: "alice"}},
		{User: &discordgo.User{ID: "222", Username: "bob"}},
	}

	byID := findBan(bans, "222")
	require.NotNil(t, byID)
	assert.Equal(t, "bob", byID.User.Username)

	byName := findBan(bans, "alice")
	require.NotNil(t, byName)
	assert.Equal(t, "111", byName.User.ID)

	assert.Nil(t, findBan(bans, "333"))
	assert.Nil(t, findBan(bans, "carol"))
}
