package modlog

// Store is the durable record collection keyed by guild. Implementations
// must make NextID a single atomically-visible allocation: two concurrent
// calls for the same guild must never observe the same id.
type Store interface {
	// NextID allocates the next case id for a guild. The first allocation
	// seeds from the maximum id stored across all kinds (0 when empty).
	NextID(guildID string) (int64, error)

	Insert(rec Record) error
	Find(guildID string, id int64) (Record, bool, error)
	Update(rec Record) error
	Delete(guildID string, id int64) error

	// List and ListByUser return records newest first.
	List(guildID string) ([]Record, error)
	ListByUser(guildID, userID string) ([]Record, error)

	Close() error
}
