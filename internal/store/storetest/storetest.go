// Package storetest provides in-memory stand-ins for the MongoDB stores.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/DarkArtheme/museumguide-backend/internal/models"
)

// Catalog is a fixed museum catalog. List returns museums sorted by id.
type Catalog struct {
	Museums []models.Museum
	Err     error
}

func NewCatalog(museums ...models.Museum) *Catalog {
	return &Catalog{Museums: museums}
}

func (c *Catalog) List(context.Context) ([]models.Museum, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	out := make([]models.Museum, len(c.Museums))
	copy(out, c.Museums)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Catalog) Get(_ context.Context, id int) (*models.Museum, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	for i := range c.Museums {
		if c.Museums[i].ID == id {
			m := c.Museums[i]
			return &m, nil
		}
	}
	return nil, nil
}

// Favorites mirrors the users_and_fav semantics: lazy creation on Get and
// Add, set insertion, and no record creation on Remove.
type Favorites struct {
	mu      sync.Mutex
	records map[string][]int
	Err     error
}

func NewFavorites() *Favorites {
	return &Favorites{records: map[string][]int{}}
}

func (f *Favorites) Get(_ context.Context, userID string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	ids, ok := f.records[userID]
	if !ok {
		ids = []int{}
		f.records[userID] = ids
	}
	out := make([]int, len(ids))
	copy(out, ids)
	return out, nil
}

func (f *Favorites) Add(_ context.Context, userID string, museumID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	ids := f.records[userID]
	for _, id := range ids {
		if id == museumID {
			return false, nil
		}
	}
	f.records[userID] = append(ids, museumID)
	return true, nil
}

func (f *Favorites) Remove(_ context.Context, userID string, museumID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	ids, ok := f.records[userID]
	if !ok {
		return false, nil
	}
	for i, id := range ids {
		if id == museumID {
			f.records[userID] = append(ids[:i:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Record reports the stored ids and whether the user has a record at all.
func (f *Favorites) Record(userID string) ([]int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids, ok := f.records[userID]
	return ids, ok
}

// Publisher collects published favorite events.
type Publisher struct {
	mu   sync.Mutex
	Msgs []models.FavoriteMsg
	Err  error
}

func (p *Publisher) PublishFavorite(_ context.Context, msg models.FavoriteMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Msgs = append(p.Msgs, msg)
	return nil
}

func (p *Publisher) Published() []models.FavoriteMsg {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.FavoriteMsg, len(p.Msgs))
	copy(out, p.Msgs)
	return out
}
