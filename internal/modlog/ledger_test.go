package modlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"modwarden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePolicies struct {
	policy storage.GuildPolicy
}

func (f *fakePolicies) GuildPolicy(guildID string) (storage.GuildPolicy, error) {
	p := f.policy
	p.GuildID = guildID
	return p, nil
}

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentEmbed
	fail error
}

func (f *fakeNotifier) Send(_ context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentEmbed{channelID: channelID, embed: embed})
	return nil
}

func (f *fakeNotifier) all() []sentEmbed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEmbed(nil), f.sent...)
}

type fakeResolver struct{}

func (fakeResolver) ResolveUser(userID string) (string, string) {
	return "user-" + userID, "https://cdn.example/" + userID + ".png"
}

func newTestLedger(notify *fakeNotifier) *Ledger {
	policies := &fakePolicies{policy: storage.GuildPolicy{
		ModLogEnabled:   true,
		ModLogChannelID: "modlog-channel",
	}}
	return NewLedger(NewMemoryStore(), policies, notify, fakeResolver{})
}

func fieldValue(embed *discordgo.MessageEmbed, name string) string {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestAppendAssignsSequentialIDsAcrossKinds(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := newTestLedger(notify)
	ctx := context.Background()

	warn, err := ledger.Append(ctx, "G", Entry{
		Kind:        KindModeration,
		UserID:      "U1",
		ModeratorID: "M1",
		Action:      ActionWarning,
		Reason:      "spam",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), warn.ID)
	assert.Equal(t, KindModeration, warn.Kind)
	assert.Equal(t, ActionWarning, warn.Action)

	purge, err := ledger.Append(ctx, "G", Entry{
		Kind:        KindPurge,
		ModeratorID: "M1",
		Action:      "Purge",
		ChannelID:   "C1",
		Amount:      42,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), purge.ID, "purge shares the moderation sequence, never reuses id 1")

	sent := notify.all()
	require.Len(t, sent, 2)
	assert.Equal(t, "modlog-channel", sent[0].channelID)
	assert.Contains(t, sent[0].embed.Title, "Case #1")
	assert.Contains(t, sent[1].embed.Title, "Case #2")
	assert.Equal(t, "42", fieldValue(sent[1].embed, "Messages"))
}

func TestConcurrentAppendsAllocateDistinctIDs(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := newTestLedger(notify)
	ctx := context.Background()

	// Pre-existing records: max id 3.
	for i := 0; i < 3; i++ {
		_, err := ledger.Append(ctx, "G", Entry{Kind: KindModeration, UserID: "U", ModeratorID: "M", Action: ActionWarning})
		require.NoError(t, err)
	}

	const n = 32
	kinds := []Kind{KindModeration, KindPurge, KindSlowmode, KindNote}

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := ledger.Append(ctx, "G", Entry{
				Kind:        kinds[i%len(kinds)],
				UserID:      fmt.Sprintf("U%d", i),
				ModeratorID: "M",
				Action:      "Action",
			})
			if err == nil {
				ids <- rec.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	for id := int64(4); id <= int64(3+n); id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}

func TestAppendsToDifferentGuildsDoNotShareSequence(t *testing.T) {
	ledger := newTestLedger(&fakeNotifier{})
	ctx := context.Background()

	a, err := ledger.Append(ctx, "G1", Entry{Kind: KindModeration, UserID: "U", ModeratorID: "M", Action: ActionWarning})
	require.NoError(t, err)
	b, err := ledger.Append(ctx, "G2", Entry{Kind: KindModeration, UserID: "U", ModeratorID: "M", Action: ActionWarning})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(1), b.ID)
}

func TestAmendChangesOnlyReason(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := newTestLedger(notify)
	ctx := context.Background()

	rec, err := ledger.Append(ctx, "G", Entry{
		Kind: KindModeration, UserID: "U1", ModeratorID: "M1",
		Action: ActionWarning, Reason: "spam",
	})
	require.NoError(t, err)

	ok, err := ledger.Amend(ctx, "G", rec.ID, "repeated spam")
	require.NoError(t, err)
	require.True(t, ok)

	after, found, err := ledger.FindByCase("G", rec.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "repeated spam", after.Reason)
	assert.Equal(t, rec.ID, after.ID)
	assert.Equal(t, rec.Kind, after.Kind)
	assert.Equal(t, rec.UserID, after.UserID)
	assert.Equal(t, rec.ModeratorID, after.ModeratorID)
	assert.Equal(t, rec.Action, after.Action)
	assert.True(t, rec.Timestamp.Equal(after.Timestamp), "timestamp must not change on amend")

	sent := notify.all()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[1].embed.Title, "Reason Updated")
	assert.Equal(t, "repeated spam", fieldValue(sent[1].embed, "Reason"))
}

func TestAmendMissingCaseReturnsFalse(t *testing.T) {
	ledger := newTestLedger(&fakeNotifier{})
	ok, err := ledger.Amend(context.Background(), "G", 99, "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveNotifiesFromPreDeletionSnapshot(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := newTestLedger(notify)
	ctx := context.Background()

	rec, err := ledger.Append(ctx, "G", Entry{
		Kind: KindModeration, UserID: "U1", ModeratorID: "M1",
		Action: ActionWarning, Reason: "original reason",
	})
	require.NoError(t, err)

	require.NoError(t, ledger.Remove(ctx, "G", rec.ID, "issued in error"))

	_, found, err := ledger.FindByCase("G", rec.ID)
	require.NoError(t, err)
	assert.False(t, found)

	sent := notify.all()
	require.Len(t, sent, 2)
	deleted := sent[1].embed
	assert.Contains(t, deleted.Title, "Warning (Deleted)")
	assert.Equal(t, "<@U1>", fieldValue(deleted, "User"))
	assert.Equal(t, "issued in error", fieldValue(deleted, "Reason"))
}

func TestRemoveDeletesEvenWhenNotificationFails(t *testing.T) {
	notify := &fakeNotifier{fail: errors.New("channel gone")}
	ledger := newTestLedger(notify)
	ctx := context.Background()

	rec, err := ledger.Append(ctx, "G", Entry{Kind: KindModeration, UserID: "U1", ModeratorID: "M1", Action: ActionWarning})
	require.NoError(t, err)

	require.NoError(t, ledger.Remove(ctx, "G", rec.ID, "cleanup"))

	_, found, err := ledger.FindByCase("G", rec.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveMissingCaseIsSilent(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := newTestLedger(notify)

	require.NoError(t, ledger.Remove(context.Background(), "G", 404, "nope"))
	assert.Empty(t, notify.all(), "missing case must not emit a notification")
}

func TestAppendSucceedsWhenNotificationFails(t *testing.T) {
	notify := &fakeNotifier{fail: errors.New("send failed")}
	ledger := newTestLedger(notify)

	rec, err := ledger.Append(context.Background(), "G", Entry{
		Kind: KindModeration, UserID: "U1", ModeratorID: "M1", Action: ActionWarning,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)

	_, found, err := ledger.FindByCase("G", rec.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAppendSkipsNotificationWhenChannelUnset(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := NewLedger(NewMemoryStore(), &fakePolicies{}, notify, fakeResolver{})

	_, err := ledger.Append(context.Background(), "G", Entry{
		Kind: KindModeration, UserID: "U1", ModeratorID: "M1", Action: ActionWarning,
	})
	require.NoError(t, err)
	assert.Empty(t, notify.all())
}

func TestMissingReasonRendersDefault(t *testing.T) {
	notify := &fakeNotifier{}
	ledger := newTestLedger(notify)

	_, err := ledger.Append(context.Background(), "G", Entry{
		Kind: KindModeration, UserID: "U1", ModeratorID: "M1", Action: ActionWarning,
	})
	require.NoError(t, err)

	sent := notify.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "No reason provided", fieldValue(sent[0].embed, "Reason"))
}

func TestListWarningsFiltersKindAndAction(t *testing.T) {
	ledger := newTestLedger(&fakeNotifier{})
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	ledger.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	_, err := ledger.Append(ctx, "G", Entry{Kind: KindModeration, UserID: "U1", ModeratorID: "M", Action: ActionWarning, Reason: "first"})
	require.NoError(t, err)
	_, err = ledger.Append(ctx, "G", Entry{Kind: KindModeration, UserID: "U1", ModeratorID: "M", Action: "Kick"})
	require.NoError(t, err)
	_, err = ledger.Append(ctx, "G", Entry{Kind: KindNote, UserID: "U1", ModeratorID: "M", Action: "Note", Note: "text"})
	require.NoError(t, err)
	_, err = ledger.Append(ctx, "G", Entry{Kind: KindModeration, UserID: "U2", ModeratorID: "M", Action: ActionWarning})
	require.NoError(t, err)
	_, err = ledger.Append(ctx, "G", Entry{Kind: KindModeration, UserID: "U1", ModeratorID: "M", Action: ActionWarning, Reason: "second"})
	require.NoError(t, err)

	warns, err := ledger.ListWarningsForUser("G", "U1")
	require.NoError(t, err)
	require.Len(t, warns, 2)
	assert.Equal(t, "second", warns[0].Reason, "newest first")
	assert.Equal(t, "first", warns[1].Reason)

	all, err := ledger.ListForUser("G", "U1")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Timestamp.After(all[i-1].Timestamp), "records must be newest first")
	}
}
