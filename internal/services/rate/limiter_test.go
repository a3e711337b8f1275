package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/acedreamer/onam-photo-hub/internal/repo/redis"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}

func TestLimiterBlocksOn10SecondWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 100, 2)

	ctx := context.Background()
	userID := "5b8f0a3e-63e9-4e3c-9f05-1d4c6a7e9b10"

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.AllowToggle(ctx, userID)
		if err != nil {
			t.Fatalf("allow toggle #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowToggle(ctx, userID)
	if err != nil {
		t.Fatalf("allow toggle #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third toggle in 10s window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.AllowToggle(ctx, userID)
	if err != nil {
		t.Fatalf("allow toggle after window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("expected limiter to reopen after window: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterDisabledWindows(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 0, 0)

	for i := 0; i < 10; i++ {
		_, allowed, err := limiter.AllowToggle(context.Background(), "user-a")
		if err != nil {
			t.Fatalf("allow toggle: %v", err)
		}
		if !allowed {
			t.Fatalf("disabled limiter must always allow")
		}
	}
}
