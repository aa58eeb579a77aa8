// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/reelsite/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Attempt tracks failed sign-in attempts for one key (an admin email).
type Attempt struct {
	Key          string     `bson:"_id"`
	AttemptCount int        `bson:"attempt_count"`
	WindowStart  time.Time  `bson:"window_start"`
	LockedUntil  *time.Time `bson:"locked_until,omitempty"`
	LastAttempt  time.Time  `bson:"last_attempt"` // TTL anchor
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed     bool
	Remaining   int        // attempts left in the window; 0 when locked
	LockedUntil *time.Time // set when locked
}

// Store tracks failed sign-ins in the rate_limits collection.
//
// Errors talking to Mongo fail open: a broken rate limiter must not lock
// the only admin out of the site.
type Store struct {
	c           *mongo.Collection
	maxAttempts int
	window      time.Duration
	lockout     time.Duration
	now         func() time.Time
}

// New creates a rate limit Store. maxAttempts failures inside window lock
// the key for lockout.
func New(db *mongo.Database, maxAttempts int, window, lockout time.Duration) *Store {
	return &Store{
		c:           db.Collection("rate_limits"),
		maxAttempts: maxAttempts,
		window:      window,
		lockout:     lockout,
		now:         time.Now,
	}
}

func (s *Store) load(ctx context.Context, key string) (*Attempt, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"_id": key}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Check reports whether key may attempt to sign in now.
func (s *Store) Check(ctx context.Context, key string) Decision {
	key = normalize.Email(key)
	now := s.now()

	a, err := s.load(ctx, key)
	if err != nil || a == nil {
		return Decision{Allowed: true, Remaining: s.maxAttempts}
	}
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return Decision{Allowed: false, LockedUntil: a.LockedUntil}
	}
	if now.After(a.WindowStart.Add(s.window)) {
		return Decision{Allowed: true, Remaining: s.maxAttempts}
	}
	remaining := s.maxAttempts - a.AttemptCount
	if remaining <= 0 {
		return Decision{Allowed: false}
	}
	return Decision{Allowed: true, Remaining: remaining}
}

// Fail records a failed attempt and returns the resulting decision. The
// attempt that reaches maxAttempts sets the lockout.
func (s *Store) Fail(ctx context.Context, key string) Decision {
	key = normalize.Email(key)
	now := s.now()

	a, err := s.load(ctx, key)
	if err != nil {
		return Decision{Allowed: true, Remaining: s.maxAttempts}
	}

	count := 1
	windowStart := now
	if a != nil && !now.After(a.WindowStart.Add(s.window)) {
		count = a.AttemptCount + 1
		windowStart = a.WindowStart
	}

	set := bson.M{
		"attempt_count": count,
		"window_start":  windowStart,
		"last_attempt":  now,
	}
	d := Decision{Allowed: true, Remaining: s.maxAttempts - count}
	if count >= s.maxAttempts {
		until := now.Add(s.lockout)
		set["locked_until"] = until
		d = Decision{Allowed: false, LockedUntil: &until}
	}

	update := bson.M{"$set": set}
	if _, ok := set["locked_until"]; !ok {
		update["$unset"] = bson.M{"locked_until": ""}
	}
	_, _ = s.c.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return d
}

// Clear forgets all failures for key. Called after a successful sign-in.
func (s *Store) Clear(ctx context.Context, key string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": normalize.Email(key)})
	return err
}

// Get returns the stored attempt record for key, or nil.
func (s *Store) Get(ctx context.Context, key string) (*Attempt, error) {
	return s.load(ctx, normalize.Email(key))
}
