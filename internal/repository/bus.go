package repository

import "sync"

// Table names used as change-bus topics.
const (
	TableUsers       = "users"
	TableCollections = "collections"
	TableTasks       = "tasks"
	TableReminders   = "reminders"
)

type topic struct {
	table string
	owner string
}

// Bus fans out "rows changed" notifications to live queries, keyed by table and owner.
type Bus struct {
	mu   sync.RWMutex
	subs map[topic]map[chan struct{}]struct{}
}

func NewBus() *Bus { return &Bus{subs: make(map[topic]map[chan struct{}]struct{})} }

// Subscribe returns a channel that receives a signal after every change to table rows of owner.
// Signals are coalesced: at most one is pending per subscriber.
func (b *Bus) Subscribe(table, owner string) (ch <-chan struct{}, cancel func()) {
	c := make(chan struct{}, 1)
	key := topic{table: table, owner: owner}
	b.mu.Lock()
	if b.subs[key] == nil {
		b.subs[key] = make(map[chan struct{}]struct{})
	}
	b.subs[key][c] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return c, func() {
		once.Do(func() {
			b.mu.Lock()
			if subs, ok := b.subs[key]; ok {
				delete(subs, c)
				if len(subs) == 0 {
					delete(b.subs, key)
				}
			}
			b.mu.Unlock()
		})
	}
}

// Publish notifies every subscriber of table rows owned by owner.
func (b *Bus) Publish(table, owner string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.subs[topic{table: table, owner: owner}] {
		select {
		case c <- struct{}{}:
		default: // already pending
		}
	}
}

func (b *Bus) subscribers(table, owner string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic{table: table, owner: owner}])
}
