package session

import (
	"sync"

	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
)

// Store holds the single active game behind a read/write lock. Every read
// and mutation of the game goes through View or Update, so callers never
// observe a half-applied roll or build.
type Store struct {
	mu   sync.RWMutex
	game *engine.Game
}

// NewStore creates an empty store. View and Update fail with
// service.ErrNoActiveGame until the first Replace.
func NewStore() *Store {
	return &Store{}
}

// Replace installs game as the active game. The swap happens under the write
// lock, so in-flight operations finish against the previous game and later
// ones see the new one. fn, when non-nil, runs before the lock is released.
func (s *Store) Replace(game *engine.Game, fn func(game *engine.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game = game
	if fn != nil {
		fn(game)
	}
}

// View runs fn with shared access to the active game
func (s *Store) View(fn func(game *engine.Game) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.game == nil {
		return service.ErrNoActiveGame
	}
	return fn(s.game)
}

// Update runs fn with exclusive access to the active game
func (s *Store) Update(fn func(game *engine.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return service.ErrNoActiveGame
	}
	return fn(s.game)
}

var _ service.GameStore = (*Store)(nil)
