package store

import (
	"sync"
	"time"

	"gorm.io/gorm"
)

// Clock supplies creation and update timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Sequencer supplies row identities. Next runs inside the write's transaction;
// returning 0 leaves the identity to the storage engine.
type Sequencer interface {
	Next(tx *gorm.DB, table string) (uint, error)
}

type engineSequencer struct{}

func (engineSequencer) Next(*gorm.DB, string) (uint, error) { return 0, nil }

// EngineSequencer defers to the database's serial/autoincrement column.
var EngineSequencer Sequencer = engineSequencer{}

// CounterSequencer hands out 1, 2, 3... independently per table. Intended for
// tests: it does not advance a Postgres serial sequence.
type CounterSequencer struct {
	mu   sync.Mutex
	next map[string]uint
}

func NewCounterSequencer() *CounterSequencer {
	return &CounterSequencer{next: make(map[string]uint)}
}

func (c *CounterSequencer) Next(_ *gorm.DB, table string) (uint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next[table]++
	return c.next[table], nil
}
