package server

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuestQuota(t *testing.T) {
	q := NewGuestQuota(2, time.Hour)

	assert.Equal(t, 2, q.Remaining("1.2.3.4"))
	assert.True(t, q.Take("1.2.3.4"))
	assert.True(t, q.Take("1.2.3.4"))
	assert.False(t, q.Take("1.2.3.4"))
	assert.Equal(t, 0, q.Remaining("1.2.3.4"))

	// Clients are counted separately.
	assert.True(t, q.Take("5.6.7.8"))

	q.Refund("1.2.3.4")
	assert.Equal(t, 1, q.Remaining("1.2.3.4"))
	assert.True(t, q.Take("1.2.3.4"))
}

func TestGuestQuota_RefundNeverExceedsLimit(t *testing.T) {
	q := NewGuestQuota(1, time.Hour)
	q.Refund("1.2.3.4")
	assert.Equal(t, 1, q.Remaining("1.2.3.4"))
}

func TestGuestQuota_Zero(t *testing.T) {
	q := NewGuestQuota(0, time.Hour)
	assert.False(t, q.Take("1.2.3.4"))
}

func TestGuestQuota_Concurrent(t *testing.T) {
	q := NewGuestQuota(10, time.Hour)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if q.Take("1.2.3.4") {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, granted)
}

func TestGuestQuota_IdleClientsExpire(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		idle          time.Duration
		wantRemaining int
		wantTake      bool
	}{
		{name: "within ttl keeps count", idle: 30 * time.Minute, wantRemaining: 0, wantTake: false},
		{name: "at ttl keeps count", idle: time.Hour, wantRemaining: 0, wantTake: false},
		{name: "past ttl restores quota", idle: time.Hour + time.Second, wantRemaining: 1, wantTake: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := start
			q := NewGuestQuota(1, time.Hour)
			q.now = func() time.Time { return now }

			assert.True(t, q.Take("1.2.3.4"))
			now = now.Add(tt.idle)
			assert.Equal(t, tt.wantRemaining, q.Remaining("1.2.3.4"))
			assert.Equal(t, tt.wantTake, q.Take("1.2.3.4"))
		})
	}
}

func TestGuestQuota_PrunesIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	q := NewGuestQuota(1, time.Hour)
	q.now = func() time.Time { return now }

	for i := 0; i < 100; i++ {
		q.Take(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 100, q.Len())

	now = now.Add(30 * time.Minute)
	q.Take("active")
	assert.Equal(t, 101, q.Len())

	// The next request after the ttl sweeps every idle client but keeps the active one.
	now = now.Add(45 * time.Minute)
	assert.True(t, q.Take("newcomer"))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 0, q.Remaining("active"))
	assert.Equal(t, 1, q.Remaining("10.0.0.1"))
}

func TestGuestQuota_RefundOfLastUseForgetsClient(t *testing.T) {
	q := NewGuestQuota(1, time.Hour)
	assert.True(t, q.Take("1.2.3.4"))
	assert.Equal(t, 1, q.Len())
	q.Refund("1.2.3.4")
	assert.Equal(t, 0, q.Len())
}

func TestNewGuestQuota_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultGuestQuotaTTL, NewGuestQuota(1, 0).ttl)
	assert.Equal(t, DefaultGuestQuotaTTL, NewGuestQuota(1, -time.Minute).ttl)
	assert.Equal(t, time.Minute, NewGuestQuota(1, time.Minute).ttl)
}
