// Package notify holds the read/unread state for a fixed set of
// notifications and tells subscribers whenever it changes.
package notify

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrDuplicateID is returned when two items share an id.
	ErrDuplicateID = errors.New("duplicate notification id")
	// ErrEmptyID is returned for an item without an id.
	ErrEmptyID = errors.New("empty notification id")
)

type subscription struct {
	token uint64
	fn    func()
}

// Store tracks which notifications have been read. Subscribers are called
// synchronously, in subscription order, after every change and outside the
// store's lock, so they may read the store.
type Store struct {
	mu          sync.Mutex
	readState   map[string]bool
	subscribers []subscription
	nextToken   uint64
	logger      *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report panicking subscribers.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore seeds the read state from each item's Seen flag.
func NewStore(items []Item, opts ...Option) (*Store, error) {
	s := &Store{
		readState: make(map[string]bool, len(items)),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w at index %d", ErrEmptyID, i)
		}
		if _, dup := s.readState[item.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, item.ID)
		}
		s.readState[item.ID] = item.Seen
	}
	return s, nil
}

// Subscribe registers fn and returns a function that removes this
// subscription. Subscribing the same fn twice yields two independent
// subscriptions. The returned function is safe to call more than once.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.nextToken++
	token := s.nextToken
	s.subscribers = append(s.subscribers, subscription{token: token, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.token == token {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// ReadState returns a copy of the id -> read mapping.
func (s *Store) ReadState() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]bool, len(s.readState))
	for id, read := range s.readState {
		out[id] = read
	}
	return out
}

// IsRead reports the read flag for id and whether id is known.
func (s *Store) IsRead(id string) (read, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	read, ok = s.readState[id]
	return read, ok
}

// UnreadCount returns the number of unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, read := range s.readState {
		if !read {
			n++
		}
	}
	return n
}

// MarkAsRead marks id as read. Unknown and already-read ids are ignored and
// do not notify.
func (s *Store) MarkAsRead(id string) {
	s.mu.Lock()
	read, ok := s.readState[id]
	if !ok || read {
		s.mu.Unlock()
		return
	}
	s.readState[id] = true
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.notify(subs)
}

// MarkAllAsRead marks every notification as read and notifies once, even
// when nothing was unread.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	for id := range s.readState {
		s.readState[id] = true
	}
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	s.notify(subs)
}

func (s *Store) snapshotSubscribers() []subscription {
	return append([]subscription(nil), s.subscribers...)
}

func (s *Store) notify(subs []subscription) {
	for _, sub := range subs {
		s.call(sub)
	}
}

// call isolates a panicking subscriber from the rest.
func (s *Store) call(sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("notification subscriber panicked",
				zap.Uint64("subscription", sub.token),
				zap.Any("panic", r),
			)
		}
	}()
	sub.fn()
}
