// Package session derives and caches the authenticated session handle.
//
// The handle is an opaque raw-headers string built from the persisted
// credential document. Derivation happens lazily on first use and the result,
// including the absent outcome, is memoized until the next invalidation. The
// only mutation path is ingest (and disconnect), both of which must call
// [Cache.Invalidate] after touching the store.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmb/internal/shared"
	"github.com/desertthunder/ytmb/internal/store"
)

// HeaderKeys is the fixed ordered subset of captured browser headers used to
// derive a session handle. Absent keys are skipped; order is load-bearing so
// the same document always yields the same handle.
var HeaderKeys = []string{
	"authorization",
	"x-goog-authuser",
	"x-goog-visitor-id",
	"x-origin",
	"x-youtube-client-name",
	"x-youtube-client-version",
	"user-agent",
	"accept-language",
	"cookie",
}

// BuildHandle derives a session handle from a credential document.
//
// The handle is newline-separated "key: value" lines in [HeaderKeys] order.
// Returns ("", false) when none of the keys carry a usable value.
func BuildHandle(doc *store.Document) (string, bool) {
	if doc == nil || len(doc.Headers) == 0 {
		return "", false
	}

	var lines []string
	for _, key := range HeaderKeys {
		if val := doc.Headers[key]; val != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", key, val))
		}
	}

	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// Cache is a single-slot memoization of the derived session handle.
//
// A generation counter ties cache validity to the mutation path: Invalidate
// bumps the counter and Handle recomputes when its cached generation is
// stale. Concurrent fills are benign recomputation; the mutex only guards the
// slot itself.
type Cache struct {
	mu        sync.Mutex
	store     *store.CredentialStore
	logger    *log.Logger
	handle    string
	present   bool
	gen       uint64
	cachedGen uint64
}

// NewCache creates a Cache backed by the given credential store.
func NewCache(s *store.CredentialStore, logger *log.Logger) *Cache {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Cache{store: s, logger: logger, gen: 1}
}

// Handle returns the cached session handle, deriving it from the credential
// store on a miss.
//
// The absent outcome is cached too: repeated calls with no usable document do
// not re-read the file until the next invalidation.
func (c *Cache) Handle() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedGen == c.gen {
		return c.handle, c.present
	}

	doc, ok := c.store.Load()
	if !ok {
		c.handle, c.present = "", false
	} else {
		c.handle, c.present = BuildHandle(doc)
	}
	c.cachedGen = c.gen

	if c.present {
		c.logger.Debug("derived session handle", "gen", c.gen)
	} else {
		c.logger.Debug("no derivable session", "gen", c.gen)
	}

	return c.handle, c.present
}

// Invalidate discards the cached handle so the next Handle call re-derives it.
//
// Idempotent; must be called after every successful credential save or clear.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
}
