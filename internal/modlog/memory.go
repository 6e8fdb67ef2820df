package modlog

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store. It backs tests and acts as a stand-in
// when no durable path is configured; records do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]map[int64]Record // guildID -> id -> record
	lastID  map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[int64]Record),
		lastID:  make(map[string]int64),
	}
}

func (m *MemoryStore) NextID(guildID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last, ok := m.lastID[guildID]
	if !ok {
		for id := range m.records[guildID] {
			if id > last {
				last = id
			}
		}
	}
	next := last + 1
	m.lastID[guildID] = next
	return next, nil
}

func (m *MemoryStore) Insert(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	guild := m.records[rec.GuildID]
	if guild == nil {
		guild = make(map[int64]Record)
		m.records[rec.GuildID] = guild
	}
	guild[rec.ID] = rec
	return nil
}

func (m *MemoryStore) Find(guildID string, id int64) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[guildID][id]
	return rec, ok, nil
}

func (m *MemoryStore) Update(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	guild := m.records[rec.GuildID]
	if guild == nil {
		guild = make(map[int64]Record)
		m.records[rec.GuildID] = guild
	}
	guild[rec.ID] = rec
	return nil
}

func (m *MemoryStore) Delete(guildID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records[guildID], id)
	return nil
}

func (m *MemoryStore) List(guildID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(m.records[guildID]))
	for _, rec := range m.records[guildID] {
		out = append(out, rec)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) ListByUser(guildID, userID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, rec := range m.records[guildID] {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

// sortNewestFirst orders records by timestamp descending, id descending on
// ties (ids increase over time within a guild).
func sortNewestFirst(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Timestamp.Equal(recs[j].Timestamp) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})
}
