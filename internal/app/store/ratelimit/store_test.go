package ratelimit

import (
	"testing"
	"time"

	"github.com/dalemusser/reelsite/internal/testutil"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return New(db, 3, 15*time.Minute, 30*time.Minute)
}

func TestStore_Check_NoRecord(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := store.Check(ctx, "new@example.com")
	if !d.Allowed || d.Remaining != 3 || d.LockedUntil != nil {
		t.Errorf("Check() = %+v, want allowed with 3 remaining", d)
	}
}

func TestStore_Fail_CountsDown(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := store.Fail(ctx, "admin@example.com")
	if !d.Allowed || d.Remaining != 2 {
		t.Errorf("first Fail() = %+v, want 2 remaining", d)
	}

	d = store.Check(ctx, "ADMIN@example.com")
	if !d.Allowed || d.Remaining != 2 {
		t.Errorf("Check() after one failure = %+v (keys are case-insensitive)", d)
	}
}

func TestStore_Fail_LocksOut(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Fail(ctx, "lock@example.com")
	store.Fail(ctx, "lock@example.com")
	d := store.Fail(ctx, "lock@example.com")
	if d.Allowed || d.LockedUntil == nil {
		t.Fatalf("third Fail() = %+v, want locked", d)
	}

	d = store.Check(ctx, "lock@example.com")
	if d.Allowed {
		t.Error("Check() while locked should not allow")
	}
}

func TestStore_Clear(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Fail(ctx, "clear@example.com")
	if err := store.Clear(ctx, "clear@example.com"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	a, err := store.Get(ctx, "clear@example.com")
	if err != nil || a != nil {
		t.Errorf("Get() after Clear() = %+v, %v; want nil, nil", a, err)
	}
}

func TestStore_WindowExpiry_ResetsCounter(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now()
	store.now = func() time.Time { return base }
	store.Fail(ctx, "window@example.com")
	store.Fail(ctx, "window@example.com")

	store.now = func() time.Time { return base.Add(16 * time.Minute) }
	if d := store.Check(ctx, "window@example.com"); !d.Allowed || d.Remaining != 3 {
		t.Errorf("Check() after window = %+v, want reset", d)
	}
	d := store.Fail(ctx, "window@example.com")
	if d.Remaining != 2 {
		t.Errorf("Fail() after window = %+v, want counter restarted", d)
	}
}

func TestStore_LockoutExpires(t *testing.T) {
	store := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now()
	store.now = func() time.Time { return base }
	for i := 0; i < 3; i++ {
		store.Fail(ctx, "expire@example.com")
	}

	store.now = func() time.Time { return base.Add(31 * time.Minute) }
	if d := store.Check(ctx, "expire@example.com"); !d.Allowed {
		t.Errorf("Check() after lockout = %+v, want allowed", d)
	}
}
