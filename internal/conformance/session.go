package conformance

import (
	"github.com/serroba/shorturl-conformance/internal/shorturl"
)

// Seed describes data the service must hold before a run starts.
type Seed struct {
	Code       string
	URL        string
	MinEntries int
}

// DefaultSeed is the entry set the reference service ships with.
func DefaultSeed() Seed {
	return Seed{
		Code:       "seldev",
		URL:        "https://selenium.dev",
		MinEntries: 3,
	}
}

// Fixtures are the run-unique values the scenarios create.
type Fixtures struct {
	UniqueURL     string
	DifferentURL  string
	UniqueCode    string
	DifferentCode string
}

// Session is the state shared by the scenarios of one run.
type Session struct {
	Client   *shorturl.Client
	Seed     Seed
	Fixtures Fixtures

	// Created lists codes the run added to the service, in order.
	Created []string
	// Deleted lists codes the run removed again.
	Deleted []string
}

// NewSession prepares a session for one run.
func NewSession(client *shorturl.Client, seed Seed, fixtures Fixtures) *Session {
	return &Session{
		Client:   client,
		Seed:     seed,
		Fixtures: fixtures,
	}
}

// Leftovers returns created codes that were not deleted again.
func (s *Session) Leftovers() []string {
	deleted := make(map[string]bool, len(s.Deleted))
	for _, code := range s.Deleted {
		deleted[code] = true
	}

	var out []string

	for _, code := range s.Created {
		if !deleted[code] {
			out = append(out, code)
		}
	}

	return out
}
