package modlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/cockroachdb/pebble"
)

// PebbleStore is the durable Store. Records live under
// case:<guildID>:<zero-padded id> so one iterator prefix covers a guild, and
// the last allocated id per guild is kept under seq:<guildID>. Allocation is
// serialized per guild: read seq (seeded from a max-id scan when absent),
// increment, persist, all under the guild's lock. Never a bare read-max
// followed by an insert.
type PebbleStore struct {
	db *pebble.DB

	mu     sync.Mutex
	guilds map[string]*sync.Mutex
}

func OpenPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open ledger store: %w", err)
	}
	return &PebbleStore{db: db, guilds: make(map[string]*sync.Mutex)}, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func caseKey(guildID string, id int64) []byte {
	return []byte(fmt.Sprintf("case:%s:%020d", guildID, id))
}

func casePrefix(guildID string) []byte {
	return []byte("case:" + guildID + ":")
}

func seqKey(guildID string) []byte {
	return []byte("seq:" + guildID)
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (s *PebbleStore) guildLock(guildID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.guilds[guildID]
	if !ok {
		lock = &sync.Mutex{}
		s.guilds[guildID] = lock
	}
	return lock
}

func (s *PebbleStore) NextID(guildID string) (int64, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	last, found, err := s.readSeq(guildID)
	if err != nil {
		return 0, err
	}
	if !found {
		// First allocation for this guild (or pre-seq data): seed from the
		// maximum id stored across all kinds.
		last, err = s.scanMaxID(guildID)
		if err != nil {
			return 0, err
		}
	}

	next := last + 1
	if err := s.db.Set(seqKey(guildID), []byte(strconv.FormatInt(next, 10)), pebble.Sync); err != nil {
		return 0, fmt.Errorf("persist case sequence: %w", err)
	}
	return next, nil
}

func (s *PebbleStore) readSeq(guildID string) (int64, bool, error) {
	value, closer, err := s.db.Get(seqKey(guildID))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	defer closer.Close()

	last, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt case sequence for guild %s: %w", guildID, err)
	}
	return last, true, nil
}

func (s *PebbleStore) scanMaxID(guildID string) (int64, error) {
	prefix := casePrefix(guildID)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var max int64
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := strconv.ParseInt(string(iter.Key()[len(prefix):]), 10, 64)
		if err != nil {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max, iter.Error()
}

func (s *PebbleStore) Insert(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal case record: %w", err)
	}
	return s.db.Set(caseKey(rec.GuildID, rec.ID), data, pebble.Sync)
}

func (s *PebbleStore) Find(guildID string, id int64) (Record, bool, error) {
	value, closer, err := s.db.Get(caseKey(guildID, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	defer closer.Close()

	var rec Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return Record{}, false, fmt.Errorf("unmarshal case record: %w", err)
	}
	return rec, true, nil
}

func (s *PebbleStore) Update(rec Record) error {
	return s.Insert(rec)
}

func (s *PebbleStore) Delete(guildID string, id int64) error {
	return s.db.Delete(caseKey(guildID, id), pebble.Sync)
}

func (s *PebbleStore) List(guildID string) ([]Record, error) {
	return s.scan(guildID, func(Record) bool { return true })
}

func (s *PebbleStore) ListByUser(guildID, userID string) ([]Record, error) {
	return s.scan(guildID, func(rec Record) bool { return rec.UserID == userID })
}

func (s *PebbleStore) scan(guildID string, keep func(Record) bool) ([]Record, error) {
	prefix := casePrefix(guildID)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Record
	for iter.First(); iter.Valid(); iter.Next() {
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal case record %s: %w", iter.Key(), err)
		}
		if keep(rec) {
			out = append(out, rec)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}
