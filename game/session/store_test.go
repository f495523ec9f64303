package session_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
	"github.com/wricardo/hexsettlers/game/session"
)

func newGame(t *testing.T, id string) *engine.Game {
	t.Helper()
	game, err := engine.NewGame(id, engine.DefaultBoardConfig(), engine.NewFixedDice([2]int{2, 3}))
	require.NoError(t, err)
	return game
}

func TestStore_EmptyReturnsNoActiveGame(t *testing.T) {
	store := session.NewStore()

	called := false
	err := store.View(func(*engine.Game) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, service.ErrNoActiveGame)

	err = store.Update(func(*engine.Game) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, service.ErrNoActiveGame)
	assert.False(t, called)
}

func TestStore_ReplaceSwapsGame(t *testing.T) {
	store := session.NewStore()
	store.Replace(newGame(t, "first"), nil)

	require.NoError(t, store.Update(func(g *engine.Game) error {
		g.Roll()
		return nil
	}))

	store.Replace(newGame(t, "second"), nil)

	require.NoError(t, store.View(func(g *engine.Game) error {
		assert.Equal(t, "second", g.ID)
		assert.Equal(t, 0, g.Turn)
		assert.Equal(t, 0, g.CurrentPlayer)
		return nil
	}))
}

func TestStore_PropagatesCallbackError(t *testing.T) {
	store := session.NewStore()
	store.Replace(newGame(t, "g"), nil)

	boom := errors.New("boom")
	assert.ErrorIs(t, store.View(func(*engine.Game) error { return boom }), boom)
	assert.ErrorIs(t, store.Update(func(*engine.Game) error { return boom }), boom)
}

func TestStore_ConcurrentRollsAreSerialized(t *testing.T) {
	store := session.NewStore()
	store.Replace(newGame(t, "g"), nil)

	const workers = 8
	const rollsEach = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rollsEach; j++ {
				_ = store.Update(func(g *engine.Game) error {
					g.Roll()
					return nil
				})
				_ = store.View(func(g *engine.Game) error {
					_ = g.Snapshot()
					return nil
				})
			}
		}()
	}
	wg.Wait()

	require.NoError(t, store.View(func(g *engine.Game) error {
		assert.Equal(t, workers*rollsEach, g.Turn)
		assert.Equal(t, (workers*rollsEach)%engine.PlayerCount, g.CurrentPlayer)
		return nil
	}))
}

func TestStore_ConcurrentReplaceAndRead(t *testing.T) {
	store := session.NewStore()
	store.Replace(newGame(t, "g0"), nil)

	games := make([]*engine.Game, 10)
	for i := range games {
		games[i] = newGame(t, "g")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, g := range games {
			store.Replace(g, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			err := store.View(func(g *engine.Game) error {
				snap := g.Snapshot()
				assert.Len(t, snap.Nodes, 54)
				return nil
			})
			assert.NoError(t, err)
		}
	}()
	wg.Wait()
}

func TestStore_ReplaceRunsCallbackUnderLock(t *testing.T) {
	store := session.NewStore()
	store.Replace(newGame(t, "old"), nil)

	next := newGame(t, "new")
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		store.Replace(next, func(g *engine.Game) {
			assert.Equal(t, "new", g.ID)
			close(entered)
			<-release
		})
	}()
	<-entered

	viewed := make(chan string, 1)
	go func() {
		_ = store.View(func(g *engine.Game) error {
			viewed <- g.ID
			return nil
		})
	}()

	select {
	case id := <-viewed:
		t.Fatalf("View ran while Replace callback held the lock (saw %s)", id)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done
	assert.Equal(t, "new", <-viewed)
}
