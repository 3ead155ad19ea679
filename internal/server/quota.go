package server

import (
	"sync"
	"time"
)

// DefaultGuestQuotaTTL is how long a guest's used analyses are remembered after their last request.
const DefaultGuestQuotaTTL = 24 * time.Hour

type guestEntry struct {
	used     int
	lastSeen time.Time
}

// GuestQuota counts free analyses per anonymous client. A client idle for longer than
// the TTL is forgotten, which restores its free analyses and bounds the table size.
type GuestQuota struct {
	limit     int
	ttl       time.Duration
	mu        sync.Mutex
	used      map[string]*guestEntry
	lastPrune time.Time
	now       func() time.Time
}

// NewGuestQuota allows limit analyses per client. A zero limit requires login for every analysis.
// A non-positive ttl uses DefaultGuestQuotaTTL.
func NewGuestQuota(limit int, ttl time.Duration) *GuestQuota {
	if ttl <= 0 {
		ttl = DefaultGuestQuotaTTL
	}
	return &GuestQuota{
		limit: limit,
		ttl:   ttl,
		used:  make(map[string]*guestEntry),
		now:   time.Now,
	}
}

// Take consumes one free analysis for clientID and reports whether one was left.
func (q *GuestQuota) Take(clientID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.now()
	q.pruneLocked(now)

	e := q.entryLocked(clientID, now)
	if e != nil && e.used >= q.limit {
		e.lastSeen = now
		return false
	}
	if q.limit <= 0 {
		return false
	}
	if e == nil {
		e = &guestEntry{}
		q.used[clientID] = e
	}
	e.used++
	e.lastSeen = now
	return true
}

// Refund returns an analysis taken for a request that did not complete.
func (q *GuestQuota) Refund(clientID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.entryLocked(clientID, q.now())
	if e == nil {
		return
	}
	if e.used--; e.used <= 0 {
		delete(q.used, clientID)
	}
}

// Remaining returns how many free analyses clientID has left.
func (q *GuestQuota) Remaining(clientID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.entryLocked(clientID, q.now())
	if e == nil {
		return max(0, q.limit)
	}
	return max(0, q.limit-e.used)
}

// Len returns the number of clients currently remembered.
func (q *GuestQuota) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.used)
}

// entryLocked returns the live entry for clientID, dropping it if it has expired.
func (q *GuestQuota) entryLocked(clientID string, now time.Time) *guestEntry {
	e, ok := q.used[clientID]
	if !ok {
		return nil
	}
	if now.Sub(e.lastSeen) > q.ttl {
		delete(q.used, clientID)
		return nil
	}
	return e
}

// pruneLocked sweeps expired clients at most once per TTL.
func (q *GuestQuota) pruneLocked(now time.Time) {
	if now.Sub(q.lastPrune) < q.ttl {
		return
	}
	q.lastPrune = now
	for id, e := range q.used {
		if now.Sub(e.lastSeen) > q.ttl {
			delete(q.used, id)
		}
	}
}
