// Package dictionary answers "is this a real word?" for answers that are not
// in the curated database. The production lookup is an HTTP dictionary
// service; it can be wrapped with a Redis cache and Prometheus
// instrumentation. Every lookup is fallible: callers treat an error as "no".
package dictionary

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when the service could not give an answer.
var ErrUnavailable = errors.New("dictionary unavailable")

// Lookup checks whether a word exists.
type Lookup interface {
	Exists(ctx context.Context, word string) (bool, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, word string) (bool, error)

// Exists implements Lookup.
func (f LookupFunc) Exists(ctx context.Context, word string) (bool, error) {
	return f(ctx, word)
}

// Confirm resolves a word to a plain boolean. Errors are logged and count as
// "does not exist" so an unreachable dictionary never blocks a game.
func Confirm(ctx context.Context, l Lookup, word string, logger zerolog.Logger) bool {
	ok, err := l.Exists(ctx, word)
	if err != nil {
		logger.Warn().Err(err).Str("word", word).Msg("Dictionary lookup failed, treating word as invalid")
		return false
	}
	return ok
}

// Normalize returns the canonical form used for lookups and cache keys.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Static is an in-memory word list, used offline and in tests.
type Static struct {
	mu    sync.RWMutex
	words map[string]struct{}
	calls int
}

// NewStatic returns a Static containing words.
func NewStatic(words ...string) *Static {
	s := &Static{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.words[Normalize(w)] = struct{}{}
	}
	return s
}

// Exists implements Lookup.
func (s *Static) Exists(ctx context.Context, word string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	_, ok := s.words[Normalize(word)]
	return ok, nil
}

// Calls returns how many lookups were served.
func (s *Static) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// Offline never confirms anything. It is the fallback when no dictionary
// service is configured.
type Offline struct{}

// Exists implements Lookup.
func (Offline) Exists(context.Context, string) (bool, error) {
	return false, ErrUnavailable
}
