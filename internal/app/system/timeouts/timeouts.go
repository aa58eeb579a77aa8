// Package timeouts holds the deadlines handlers put on database work.
//
// Handlers wrap store calls the same way everywhere:
//
//	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Read())
//	defer cancel()
package timeouts

import (
	"sync"
	"time"
)

// Defaults, used until Configure is called.
const (
	DefaultPing  = 2 * time.Second
	DefaultRead  = 5 * time.Second
	DefaultWrite = 10 * time.Second
)

// Config holds the configurable deadlines. Zero fields keep the current
// value.
type Config struct {
	Ping  time.Duration // health probes
	Read  time.Duration // single lookups and list queries
	Write time.Duration // inserts, updates, deletes and their audit writes
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func defaults() Config {
	return Config{Ping: DefaultPing, Read: DefaultRead, Write: DefaultWrite}
}

// Ping returns the deadline for health probes.
func Ping() time.Duration { return Current().Ping }

// Read returns the deadline for queries.
func Read() time.Duration { return Current().Read }

// Write returns the deadline for mutations.
func Write() time.Duration { return Current().Write }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		cur.Ping = cfg.Ping
	}
	if cfg.Read > 0 {
		cur.Read = cfg.Read
	}
	if cfg.Write > 0 {
		cur.Write = cfg.Write
	}
}

// Reset restores the defaults.
func Reset() {
	mu.Lock()
	cur = defaults()
	mu.Unlock()
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}
