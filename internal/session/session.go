package session

import (
	"slices"
	"strings"
	"sync"

	"github.com/spigell/schememitra/internal/schemes"
)

// Session keeps the per-user interactive state: the profile, bookmarked
// schemes and the schemes whose explanation is expanded.
type Session struct {
	mu        sync.RWMutex
	profile   string
	bookmarks []string
	expanded  map[string]bool
}

func New() *Session {
	return &Session{expanded: make(map[string]bool)}
}

// Profile returns the current profile or DefaultProfile when none is set.
func (s *Session) Profile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(s.profile) == "" {
		return DefaultProfile
	}
	return s.profile
}

func (s *Session) SetProfile(profile string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = strings.TrimSpace(profile)
}

// ToggleBookmark adds or removes the scheme id and reports whether it is now bookmarked.
func (s *Session) ToggleBookmark(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.bookmarks, id); i >= 0 {
		s.bookmarks = slices.Delete(s.bookmarks, i, i+1)
		return false
	}
	s.bookmarks = append(s.bookmarks, id)
	return true
}

func (s *Session) IsBookmarked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.bookmarks, id)
}

// Bookmarks returns bookmarked ids in the order they were added.
func (s *Session) Bookmarks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.bookmarks)
}

// Bookmarked resolves bookmarks against the catalog, in catalog order.
// Ids missing from the catalog are skipped.
func (s *Session) Bookmarked(catalog *schemes.Catalog) []schemes.Scheme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []schemes.Scheme
	for _, item := range catalog.Items() {
		if slices.Contains(s.bookmarks, item.ID) {
			out = append(out, item)
		}
	}
	return out
}

// ToggleExpanded flips the expanded state and reports the new state.
func (s *Session) ToggleExpanded(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expanded[id] {
		delete(s.expanded, id)
		return false
	}
	s.expanded[id] = true
	return true
}

func (s *Session) IsExpanded(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded[id]
}
