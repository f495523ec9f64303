// Package session holds the server's single active game.
//
// Store implements service.GameStore. It guards one *engine.Game with a
// sync.RWMutex: snapshots take the read lock, rolls and builds take the write
// lock, and starting a new game swaps the pointer under the write lock.
//
// The board for a new game is generated before Replace is called, so readers
// are only blocked for the pointer swap itself.
//
// Usage:
//
//	store := session.NewStore()
//	store.Replace(game, nil)
//
//	err := store.Update(func(g *engine.Game) error {
//		g.Roll()
//		return nil
//	})
package session
