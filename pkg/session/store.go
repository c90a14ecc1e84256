// Package session keeps per-page-view state slots in memory. A view holds
// the Config loaded for one rendered page and the most recent batch result.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-inferform/pkg/schema"
)

const (
	DefaultTTL      = 30 * time.Minute
	DefaultMaxViews = 1024
)

// ErrViewNotFound is returned for unknown or expired view ids.
var ErrViewNotFound = errors.New("session: view not found")

// CSVSlot stores the last batch response verbatim.
type CSVSlot struct {
	Data     []byte
	Filename string
}

// View is one page view's state.
type View struct {
	ID     string
	Config schema.Config

	csv      *CSVSlot
	lastSeen time.Time
}

// CSV returns a copy of the stored batch response, if any.
func (v *View) CSV() (CSVSlot, bool) {
	if v == nil || v.csv == nil {
		return CSVSlot{}, false
	}
	return *v.csv, true
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long an idle view is retained.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxViews caps the number of retained views. The least recently used
// view is evicted first.
func WithMaxViews(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.maxViews = limit
		}
	}
}

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is an in-memory, mutex-guarded view registry.
type Store struct {
	mu       sync.Mutex
	views    map[string]*View
	ttl      time.Duration
	maxViews int
	now      func() time.Time
}

// NewStore constructs an empty Store.
func NewStore(options ...Option) *Store {
	s := &Store{
		views:    make(map[string]*View),
		ttl:      DefaultTTL,
		maxViews: DefaultMaxViews,
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Configure applies options to a live store. Existing views are kept and
// re-checked against the new limits on the next write.
func (s *Store) Configure(options ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
}

// Create registers a new view for cfg and returns it.
func (s *Store) Create(cfg schema.Config) *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	for len(s.views) >= s.maxViews {
		s.evictOldestLocked()
	}

	view := &View{ID: uuid.NewString(), Config: cfg, lastSeen: now}
	s.views[view.ID] = view
	return snapshot(view)
}

// Get returns a copy of the view and refreshes its idle timer.
func (s *Store) Get(id string) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	return snapshot(view), nil
}

// PutCSV replaces the view's CSV slot in full.
func (s *Store) PutCSV(id string, slot CSVSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.lookupLocked(id)
	if err != nil {
		return err
	}
	data := make([]byte, len(slot.Data))
	copy(data, slot.Data)
	view.csv = &CSVSlot{Data: data, Filename: slot.Filename}
	return nil
}

// Len reports the number of retained views.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *Store) lookupLocked(id string) (*View, error) {
	view, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	now := s.now()
	if now.Sub(view.lastSeen) > s.ttl {
		delete(s.views, id)
		return nil, ErrViewNotFound
	}
	view.lastSeen = now
	return view, nil
}

func (s *Store) sweepLocked(now time.Time) {
	for id, view := range s.views {
		if now.Sub(view.lastSeen) > s.ttl {
			delete(s.views, id)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var oldest *View
	for _, view := range s.views {
		if oldest == nil || view.lastSeen.Before(oldest.lastSeen) {
			oldest = view
		}
	}
	if oldest != nil {
		delete(s.views, oldest.ID)
	}
}

func snapshot(view *View) *View {
	out := *view
	if view.csv != nil {
		slot := *view.csv
		out.csv = &slot
	}
	return &out
}
