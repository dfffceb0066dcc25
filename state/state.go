// Package state owns the process-wide user state: theme preference, the
// favorites list, and the current city selection with its forecast
// snapshot. State is loaded once at startup and every mutation is persisted
// immediately, so there is no flush step on shutdown.
package state

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"weatherdash/models"
	"weatherdash/presenter"
	"weatherdash/storage"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	themeKey     = "theme"
	favoritesKey = "favorites"
)

// App is the single container for user state. There is exactly one logical
// current city and one logical current snapshot; all mutations go through
// this type.
type App struct {
	mu     sync.RWMutex
	kv     storage.KV
	logger *zap.Logger

	theme     Theme
	favorites []models.City

	selected *models.City
	snapshot *presenter.Snapshot

	// Monotonic token guarding against stale forecast completions. A fetch
	// started for a superseded selection must not overwrite a newer one.
	selectionToken uint64
}

// Load reads the persisted theme and favorites and returns the initialized
// application state. Missing keys fall back to defaults; a corrupt
// favorites snapshot is logged and discarded rather than blocking startup.
func Load(kv storage.KV, logger *zap.Logger) (*App, error) {
	a := &App{
		kv:     kv,
		logger: logger,
		theme:  ThemeLight,
	}

	if v, ok, err := kv.Get(themeKey); err != nil {
		return nil, fmt.Errorf("failed to load theme: %w", err)
	} else if ok && Theme(v) == ThemeDark {
		a.theme = ThemeDark
	}

	if v, ok, err := kv.Get(favoritesKey); err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	} else if ok {
		if err := json.Unmarshal([]byte(v), &a.favorites); err != nil {
			logger.Warn("discarding corrupt favorites snapshot", zap.Error(err))
			a.favorites = nil
		}
	}

	return a, nil
}

// Theme returns the current theme preference.
func (a *App) Theme() Theme {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.theme
}

// ToggleTheme flips the theme between light and dark and persists it.
func (a *App) ToggleTheme() (Theme, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.theme == ThemeLight {
		a.theme = ThemeDark
	} else {
		a.theme = ThemeLight
	}
	if err := a.kv.Set(themeKey, string(a.theme)); err != nil {
		return a.theme, fmt.Errorf("failed to persist theme: %w", err)
	}
	return a.theme, nil
}

// Favorites returns a copy of the favorites list in insertion order.
func (a *App) Favorites() []models.City {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.City, len(a.favorites))
	copy(out, a.favorites)
	return out
}

// IsFavorite reports whether a city with the given ID is favorited.
func (a *App) IsFavorite(id int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.indexOf(id) >= 0
}

// AddFavorite appends city to the favorites list and persists the new
// snapshot. Adding an already-present ID is a no-op.
func (a *App) AddFavorite(city models.City) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.indexOf(city.ID) >= 0 {
		return nil
	}
	a.favorites = append(a.favorites, city)
	return a.persistFavorites()
}

// RemoveFavorite removes the city with the given ID and persists the new
// snapshot. Removing an absent ID is a no-op.
func (a *App) RemoveFavorite(id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOf(id)
	if i < 0 {
		return nil
	}
	a.favorites = append(a.favorites[:i], a.favorites[i+1:]...)
	return a.persistFavorites()
}

func (a *App) indexOf(id int64) int {
	for i, fav := range a.favorites {
		if fav.ID == id {
			return i
		}
	}
	return -1
}

func (a *App) persistFavorites() error {
	b, err := json.Marshal(a.favorites)
	if err != nil {
		return fmt.Errorf("failed to serialize favorites: %w", err)
	}
	if err := a.kv.Set(favoritesKey, string(b)); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}

// BeginSelection records city as the current selection, clears the previous
// snapshot, and returns the token that a completing fetch must present.
// Each call invalidates all earlier tokens.
func (a *App) BeginSelection(city models.City) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.selected = &city
	a.snapshot = nil
	a.selectionToken++
	return a.selectionToken
}

// CompleteSelection installs a snapshot produced for the selection
// identified by token. It reports false, leaving state untouched, when the
// selection has been superseded since the fetch started.
func (a *App) CompleteSelection(token uint64, snap presenter.Snapshot) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.selectionToken {
		return false
	}
	a.snapshot = &snap
	return true
}

// Selected returns a copy of the currently selected city, or nil before the
// first selection. Mutations go through BeginSelection only.
func (a *App) Selected() *models.City {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.selected == nil {
		return nil
	}
	sel := *a.selected
	return &sel
}

// Snapshot returns the current forecast snapshot, or nil when no fetch for
// the current selection has completed.
func (a *App) Snapshot() *presenter.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}
