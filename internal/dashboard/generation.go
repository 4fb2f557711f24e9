package dashboard

import "sync"

// generations counts invalidations per user. A computation records the
// generation before it fetches and stores its result only if no
// invalidation happened meanwhile, so an in-flight view built from data
// older than a mutation never lands in the cache.
type generations struct {
	mu    sync.Mutex
	users map[string]*userGeneration
}

type userGeneration struct {
	mu sync.Mutex
	n  uint64
}

func newGenerations() *generations {
	return &generations{users: make(map[string]*userGeneration)}
}

func (g *generations) user(userID string) *userGeneration {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.users[userID]
	if !ok {
		u = &userGeneration{}
		g.users[userID] = u
	}
	return u
}

// current returns the user's generation.
func (g *generations) current(userID string) uint64 {
	u := g.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.n
}

// bump advances the generation and runs fn while holding the user's lock.
func (g *generations) bump(userID string, fn func()) {
	u := g.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.n++
	fn()
}

// ifCurrent runs fn while holding the user's lock, only if the generation
// is still gen.
func (g *generations) ifCurrent(userID string, gen uint64, fn func()) bool {
	u := g.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.n != gen {
		return false
	}
	fn()
	return true
}
