package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("session not found")

// entry guards one participant's machine
type entry struct {
	mu       sync.Mutex
	machine  *session.Machine
	lastSeen time.Time
	removed  bool
}

// Registry keeps the live machines of every participant in memory, keyed by
// a browser cookie or by session id. Access to a single machine is
// serialized; different machines are independent
type Registry struct {
	newMachine func() *session.Machine
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
	cron    *cron.Cron
}

// NewRegistry creates an empty registry. Entries idle for longer than ttl are
// dropped by Sweep; a ttl of zero keeps them forever
func NewRegistry(newMachine func() *session.Machine, ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		newMachine: newMachine,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger.Named("registry"),
		entries:    make(map[string]*entry),
	}
}

// lookup returns the entry for key, creating it when create is set
func (r *Registry) lookup(key string, create bool) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		if !create {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		e = &entry{machine: r.newMachine(), lastSeen: r.now()}
		r.entries[key] = e
	}
	return e, nil
}

// With runs fn with exclusive access to the machine stored under key. When
// create is set a fresh machine is stored for unknown keys, otherwise
// ErrNotFound is returned
func (r *Registry) With(key string, create bool, fn func(m *session.Machine) error) error {
	for {
		e, err := r.lookup(key, create)
		if err != nil {
			return err
		}

		e.mu.Lock()
		if e.removed {
			// Swept or deleted while we waited
			e.mu.Unlock()
			if !create {
				return fmt.Errorf("%w: %s", ErrNotFound, key)
			}
			continue
		}

		err = fn(e.machine)
		e.lastSeen = r.now()
		e.mu.Unlock()
		return err
	}
}

// Put stores a machine under key, replacing any previous one
func (r *Registry) Put(key string, m *session.Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.entries[key]; ok {
		old.removed = true
	}
	r.entries[key] = &entry{machine: m, lastSeen: r.now()}
}

// Delete drops the machine stored under key and reports whether it existed
func (r *Registry) Delete(key string) bool {
	r.mu.Lock()
	e, ok := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}
	return ok
}

// Len returns the number of stored machines
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep removes machines idle for longer than the ttl. Machines in use are
// skipped. It returns the number of removed machines
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for key, e := range r.entries {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			e.removed = true
			delete(r.entries, key)
			removed++
		}
		e.mu.Unlock()
	}

	if removed > 0 {
		r.logger.Info("dropped idle sessions", zap.Int("count", removed), zap.Duration("ttl", r.ttl))
	}
	return removed
}

// Start runs Sweep on the given cron schedule until Stop is called
func (r *Registry) Start(schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return fmt.Errorf("sweeper already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { r.Sweep() }); err != nil {
		return fmt.Errorf("invalid sweep schedule '%s': %w", schedule, err)
	}

	c.Start()
	r.cron = c
	return nil
}

// Stop halts the sweeper and waits for a running sweep to finish
func (r *Registry) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
