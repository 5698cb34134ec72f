// Package theme holds the reader's light/dark preference.
//
// A Preference is mounted against two ports: a Store that persists the
// choice under a single key, and a Root whose class list reflects the active
// theme. The HTTP layer backs the Store with the session cookie and turns the
// Root into the <html class> attribute; tests use MemoryStore and ClassList.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme is a named visual mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the key the preference is persisted under.
const StorageKey = "theme"

// DarkClass is the root class applied while the dark theme is active.
const DarkClass = "dark"

// Parse maps a persisted value to a Theme. Anything other than "dark"
// reads as Light.
func Parse(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// Store persists the preference.
type Store interface {
	// Read returns the stored value and whether one was present. An
	// unavailable backend reports false.
	Read(key string) (string, bool)
	Write(key, value string) error
}

// Root is the document root the theme class is applied to.
type Root interface {
	SetClass(name string, on bool)
}

// Logger receives store write failures. Both echo.Logger and the gommon
// logger satisfy it.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Preference is the mounted theme state.
type Preference struct {
	store   Store
	root    Root
	log     Logger
	current Theme
}

// Mount reads the persisted theme once, falling back to Light, and applies
// the matching class to root.
func Mount(store Store, root Root, log Logger) *Preference {
	p := &Preference{store: store, root: root, log: log, current: Light}
	if store != nil {
		if v, ok := store.Read(StorageKey); ok {
			p.current = Parse(v)
		}
	}
	p.apply()
	return p
}

// Current returns the active theme.
func (p *Preference) Current() Theme {
	return p.current
}

// Toggle flips the theme, updates the root class and persists the new
// value. A failed write only costs persistence; the toggle still applies.
func (p *Preference) Toggle() Theme {
	p.current = p.current.Opposite()
	p.apply()
	if p.store != nil {
		if err := p.store.Write(StorageKey, p.current.String()); err != nil && p.log != nil {
			p.log.Warnf("theme: persist %q: %v", p.current, err)
		}
	}
	return p.current
}

func (p *Preference) apply() {
	if p.root != nil {
		p.root.SetClass(DarkClass, p.current == Dark)
	}
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Read(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Write(key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// ClassList is a Root backed by a set of class names.
type ClassList struct {
	classes map[string]struct{}
}

// SetClass adds or removes name.
func (l *ClassList) SetClass(name string, on bool) {
	if l.classes == nil {
		l.classes = make(map[string]struct{})
	}
	if on {
		l.classes[name] = struct{}{}
	} else {
		delete(l.classes, name)
	}
}

// Has reports whether name is set.
func (l *ClassList) Has(name string) bool {
	_, ok := l.classes[name]
	return ok
}

// String renders the list as a class attribute value, sorted.
func (l *ClassList) String() string {
	names := make([]string, 0, len(l.classes))
	for n := range l.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}
