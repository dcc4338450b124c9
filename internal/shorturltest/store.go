package shorturltest

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/serroba/shorturl-conformance/internal/shorturl"
)

var (
	ErrNotFound   = errors.New("short code not found")
	ErrCodeExists = errors.New("short code already exists")
)

// Record is one stored short URL.
type Record struct {
	URL     string
	Code    string
	Created time.Time
	Visits  int
}

// Store is the in-memory state of the fake service. Entries keep insertion order.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*Record),
		now:     time.Now,
	}
}

// Add stores a new code. An existing code is rejected unless overwrite is set.
func (s *Store) Add(url, code string, overwrite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[code]; ok {
		if !overwrite {
			return ErrCodeExists
		}

		existing.URL = url

		return nil
	}

	s.records[code] = &Record{URL: url, Code: code, Created: s.now()}
	s.order = append(s.order, code)

	return nil
}

// Get returns the record for code.
func (s *Store) Get(code string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[code]
	if !ok {
		return nil, ErrNotFound
	}

	cp := *r

	return &cp, nil
}

// List returns a snapshot of every record in insertion order.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, *s.records[code])
	}

	return out
}

// Delete removes code.
func (s *Store) Delete(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[code]; !ok {
		return ErrNotFound
	}

	delete(s.records, code)

	for i, c := range s.order {
		if c == code {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return nil
}

// Visit increments the visit counter of code.
func (s *Store) Visit(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[code]
	if !ok {
		return ErrNotFound
	}

	r.Visits++

	return nil
}

// Len returns the number of stored codes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

// Entry renders the record the way the service serialises it.
func (r Record) Entry(baseURL string) shorturl.Entry {
	return shorturl.Entry{
		URL:         r.URL,
		ShortCode:   r.Code,
		ShortURL:    baseURL + "/go/" + r.Code,
		DateCreated: r.Created.Format("02.01.2006 15:04:05"),
		Visits:      strconv.Itoa(r.Visits),
	}
}
