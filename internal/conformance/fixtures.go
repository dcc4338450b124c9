package conformance

import (
	"fmt"
	"sync/atomic"

	"github.com/jaevor/go-nanoid"
)

const (
	DefaultFixturePrefix = "shami"

	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffixLength   = 12
)

// Generator draws short codes and URLs that are unique within a run and
// unlikely to collide with earlier runs against the same service.
type Generator struct {
	prefix  string
	random  func() string
	counter atomic.Uint64
}

// NewGenerator creates a generator whose values start with prefix.
func NewGenerator(prefix string) (*Generator, error) {
	random, err := nanoid.CustomASCII(suffixAlphabet, suffixLength)
	if err != nil {
		return nil, fmt.Errorf("create id generator: %w", err)
	}

	return NewGeneratorWithSource(prefix, random), nil
}

// NewGeneratorWithSource uses random for the unpredictable part of each value.
func NewGeneratorWithSource(prefix string, random func() string) *Generator {
	return &Generator{prefix: prefix, random: random}
}

// Code returns a fresh short code.
func (g *Generator) Code() string {
	return fmt.Sprintf("%s%s%d", g.prefix, g.random(), g.counter.Add(1))
}

// URL returns a fresh URL.
func (g *Generator) URL() string {
	return "https://" + g.Code() + ".com"
}

// Fixtures draws a complete fixture set.
func (g *Generator) Fixtures() Fixtures {
	return Fixtures{
		UniqueURL:     g.URL(),
		DifferentURL:  g.URL(),
		UniqueCode:    g.Code(),
		DifferentCode: g.Code(),
	}
}
