package redis

import (
	"testing"
	"time"

	"crossword-service/internal/app"
	"crossword-service/internal/crossword"
	"crossword-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	store.Put(app.NewSession("game-1", "u1", crossword.Layout{Grid: domain.NewGrid(5)}, crossword.Rules{}))
	if !mr.Exists("crossword:session:game-1") {
		t.Fatalf("expected redis key to be set")
	}
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.Delete("game-1")
	if mr.Exists("crossword:session:game-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreRefreshesTTLOnAccess(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)
	store.Put(app.NewSession("game-1", "u1", crossword.Layout{Grid: domain.NewGrid(5)}, crossword.Rules{}))

	mr.FastForward(45 * time.Second)
	if ttl := mr.TTL(Key("game-1")); ttl != 15*time.Second {
		t.Fatalf("expected 15s left, got %v", ttl)
	}

	store.Get("game-1")
	if ttl := mr.TTL(Key("game-1")); ttl != time.Minute {
		t.Fatalf("expected ttl refreshed to 1m, got %v", ttl)
	}
}

func TestSessionStoreEvictsIdleGames(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := newSessionStoreWithClock(client, time.Minute, func() time.Time { return now })

	session := app.NewSession("game-1", "u1", crossword.Layout{Grid: domain.NewGrid(5)}, crossword.Rules{})
	store.Put(session)

	mr.FastForward(time.Hour)
	now = now.Add(time.Hour)
	if mr.Exists(Key("game-1")) {
		t.Fatalf("expected liveness key expired")
	}
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expired game must not be served")
	}
	if store.local.Len() != 0 {
		t.Fatalf("expected local session released")
	}
}

func TestSessionStorePruneDropsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := newSessionStoreWithClock(client, time.Minute, func() time.Time { return now })

	store.Put(app.NewSession("idle", "u1", crossword.Layout{Grid: domain.NewGrid(5)}, crossword.Rules{}))
	store.Put(app.NewSession("active", "u2", crossword.Layout{Grid: domain.NewGrid(5)}, crossword.Rules{}))

	now = now.Add(45 * time.Second)
	store.Get("active")
	now = now.Add(30 * time.Second)

	ids := store.Prune()
	if len(ids) != 1 || ids[0] != "idle" {
		t.Fatalf("expected idle game pruned, got %v", ids)
	}
	if mr.Exists(Key("idle")) {
		t.Fatalf("expected liveness key of pruned game removed")
	}
	if !mr.Exists(Key("active")) {
		t.Fatalf("expected active game key kept")
	}
	if _, ok := store.Get("active"); !ok {
		t.Fatalf("expected active game still served")
	}
}
