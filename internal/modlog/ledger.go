package modlog

import (
	"context"
	"fmt"
	"log"
	"time"

	"modwarden/internal/metrics"
	"modwarden/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Notifier delivers an audit embed to a channel. Sends are best-effort:
// the ledger logs failures and moves on, it never rolls back a write.
type Notifier interface {
	Send(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// PolicyReader exposes the guild settings the ledger needs: whether modlog
// notifications are enabled and which channel receives them.
type PolicyReader interface {
	GuildPolicy(guildID string) (storage.GuildPolicy, error)
}

// UserResolver resolves a user id to a display name and avatar URL for
// notification embeds. Implementations must tolerate unknown ids.
type UserResolver interface {
	ResolveUser(userID string) (name, avatarURL string)
}

// Ledger owns case record lifecycle: allocation of the shared per-guild id
// sequence, writes, reason amendment, deletion with a pre-deletion snapshot
// notification, and read queries.
type Ledger struct {
	store    Store
	policies PolicyReader
	notify   Notifier
	users    UserResolver
	now      func() time.Time
}

func NewLedger(store Store, policies PolicyReader, notify Notifier, users UserResolver) *Ledger {
	return &Ledger{
		store:    store,
		policies: policies,
		notify:   notify,
		users:    users,
		now:      time.Now,
	}
}

// Append allocates the next case id for the guild, writes the record, and
// notifies the modlog channel. The returned record carries the assigned id
// and timestamp. Notification failure never fails the append.
func (l *Ledger) Append(ctx context.Context, guildID string, e Entry) (Record, error) {
	id, err := l.store.NextID(guildID)
	if err != nil {
		return Record{}, fmt.Errorf("allocate case id: %w", err)
	}

	rec := Record{
		GuildID:     guildID,
		ID:          id,
		Kind:        e.Kind,
		UserID:      e.UserID,
		ModeratorID: e.ModeratorID,
		Action:      e.Action,
		Reason:      e.Reason,
		Timestamp:   l.now().UTC(),
		ChannelID:   e.ChannelID,
		Amount:      e.Amount,
		Duration:    e.Duration,
		Note:        e.Note,
	}

	if err := l.store.Insert(rec); err != nil {
		return Record{}, fmt.Errorf("write case record: %w", err)
	}
	metrics.CasesAppended.WithLabelValues(string(rec.Kind)).Inc()

	l.sendCaseNotification(ctx, rec, rec.Action, colorAppended, rec.Reason)
	return rec, nil
}

// Amend replaces the reason of an existing case and notifies the modlog
// channel with the new reason. Returns false when no record with that id
// exists. Id, kind, actor, subject, and timestamp are immutable.
func (l *Ledger) Amend(ctx context.Context, guildID string, caseID int64, newReason string) (bool, error) {
	rec, ok, err := l.store.Find(guildID, caseID)
	if err != nil {
		return false, fmt.Errorf("find case %d: %w", caseID, err)
	}
	if !ok {
		return false, nil
	}

	rec.Reason = newReason
	if err := l.store.Update(rec); err != nil {
		return false, fmt.Errorf("update case %d: %w", caseID, err)
	}

	l.sendCaseNotification(ctx, rec, "Reason Updated", colorUpdated, newReason)
	return true, nil
}

// Remove deletes a case. The notification is composed from the pre-deletion
// snapshot and carries the deletion reason; the record is erased afterwards
// even if the send failed. A missing case is logged and ignored.
func (l *Ledger) Remove(ctx context.Context, guildID string, caseID int64, deletionReason string) error {
	rec, ok, err := l.store.Find(guildID, caseID)
	if err != nil {
		return fmt.Errorf("find case %d: %w", caseID, err)
	}
	if !ok {
		log.Printf("[INFO] Case #%d not found in guild %s, nothing to delete", caseID, guildID)
		return nil
	}

	l.sendCaseNotification(ctx, rec, rec.Action+" (Deleted)", colorDeleted, deletionReason)

	if err := l.store.Delete(guildID, caseID); err != nil {
		return fmt.Errorf("delete case %d: %w", caseID, err)
	}
	return nil
}

// FindByCase returns one case by id.
func (l *Ledger) FindByCase(guildID string, caseID int64) (Record, bool, error) {
	return l.store.Find(guildID, caseID)
}

// ListForUser returns every case for a subject user, all kinds, newest
// first.
func (l *Ledger) ListForUser(guildID, userID string) ([]Record, error) {
	return l.store.ListByUser(guildID, userID)
}

// ListWarningsForUser returns the user's warning cases, newest first.
func (l *Ledger) ListWarningsForUser(guildID, userID string) ([]Record, error) {
	recs, err := l.store.ListByUser(guildID, userID)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, rec := range recs {
		if rec.Kind == KindModeration && rec.Action == ActionWarning {
			out = append(out, rec)
		}
	}
	return out, nil
}

// sendCaseNotification delivers a mutation embed to the guild's modlog
// channel, if one is configured and enabled.
func (l *Ledger) sendCaseNotification(ctx context.Context, rec Record, title string, color int, reason string) {
	policy, err := l.policies.GuildPolicy(rec.GuildID)
	if err != nil {
		log.Printf("[WARN] Failed to read policy for guild %s: %v", rec.GuildID, err)
		return
	}
	if !policy.ModLogEnabled || policy.ModLogChannelID == "" {
		log.Printf("[INFO] Modlog channel not configured for guild %s, skipping case notification", rec.GuildID)
		return
	}

	subj := l.resolveSubject(rec)
	embed := caseEmbed(rec, title, color, subj, "<@"+rec.ModeratorID+">", reason)

	if err := l.notify.Send(ctx, policy.ModLogChannelID, embed); err != nil {
		metrics.NotificationsFailed.Inc()
		log.Printf("[WARN] Failed to send case #%d notification to %s: %v", rec.ID, policy.ModLogChannelID, err)
	}
}

// resolveSubject builds the display identity for a record: the subject user
// for user-scoped kinds, the channel for channel-scoped ones.
func (l *Ledger) resolveSubject(rec Record) subject {
	if rec.UserID != "" {
		name, avatar := l.users.ResolveUser(rec.UserID)
		return subject{name: name, avatarURL: avatar, mention: "<@" + rec.UserID + ">"}
	}
	return subject{name: "#" + rec.ChannelID, mention: "<#" + rec.ChannelID + ">"}
}
