package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
)

type instructorLookup interface {
	FindIDByEmail(ctx context.Context, email string) (string, bool, error)
}

type identityEntry struct {
	instructorID string
	found        bool
	expiresAt    time.Time
}

// IdentityCache memoises which instructor a login email belongs to. Entries expire after
// ttl as measured by the injected clock; lookup failures are never cached.
type IdentityCache struct {
	lookup instructorLookup
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]identityEntry
}

// NewIdentityCache constructs the cache. A nil clock defaults to time.Now.
func NewIdentityCache(lookup instructorLookup, ttl time.Duration, clock func() time.Time) *IdentityCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if clock == nil {
		clock = time.Now
	}
	return &IdentityCache{lookup: lookup, ttl: ttl, now: clock, entries: map[string]identityEntry{}}
}

// InstructorID resolves the instructor registered under email.
func (c *IdentityCache) InstructorID(ctx context.Context, email string) (string, bool, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return "", false, nil
	}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.instructorID, entry.found, nil
	}
	c.mu.Unlock()

	id, found, err := c.lookup.FindIDByEmail(ctx, key)
	if err != nil {
		return "", false, appErrors.NewDataAccess("instructors", err)
	}

	c.mu.Lock()
	c.entries[key] = identityEntry{instructorID: id, found: found, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return id, found, nil
}

// Purge drops expired entries.
func (c *IdentityCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// InstructorForClaims resolves the instructor id of a teacher token. Non-teacher roles and
// unknown teachers yield nil.
func (c *IdentityCache) InstructorForClaims(ctx context.Context, claims *models.JWTClaims) (*string, error) {
	if claims == nil || claims.Role != models.RoleTeacher {
		return nil, nil
	}
	id, found, err := c.InstructorID(ctx, claims.Email)
	if err != nil || !found {
		return nil, err
	}
	return &id, nil
}
