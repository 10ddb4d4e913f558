package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock hands out a controllable time to code that takes an
// organizer.Clock. Concurrent readers are fine.
type StubClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewStubClock starts a StubClock at t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{current: t}
}

// FixedClock is the shared test epoch, 2024-03-08 17:05:45 UTC. Tests
// asserting clock-derived names (collision suffixes) depend on it.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 3, 8, 17, 5, 45, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// StubIDGenerator yields "id-1", "id-2", ... in call order so tests
// can predict session and rule ids.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}
