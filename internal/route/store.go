// Package route holds user-drawn travel routes. Routes are a pure client
// concept: they live in memory for the lifetime of the session and are
// never sent to the server.
package route

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"ourtime/internal/api"
)

// Route is an ordered sequence of memory visits under a display name. The
// MemoryIDs order is the visiting order the user chose and is preserved
// exactly as given.
type Route struct {
	ID          string
	Name        string
	Description string
	MemoryIDs   []int64
	CreatedAt   time.Time
}

// Store keeps the session's routes. It is used from the single TUI event
// loop and needs no locking.
type Store struct {
	routes map[string]Route
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{routes: make(map[string]Route)}
}

// Add validates and stores a new route, returning it with a generated ID.
// A route needs a non-empty name and at least two stops; the description
// is optional.
func (s *Store) Add(name, description string, memoryIDs []int64) (Route, error) {
	if name == "" {
		return Route{}, &api.Error{Kind: api.KindValidation, Message: "route name is required", Field: "name"}
	}
	if len(memoryIDs) < 2 {
		return Route{}, &api.Error{Kind: api.KindValidation, Message: "a route needs at least two memories", Field: "memoryIds"}
	}
	ids := make([]int64, len(memoryIDs))
	copy(ids, memoryIDs)
	r := Route{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		MemoryIDs:   ids,
		CreatedAt:   time.Now(),
	}
	s.routes[r.ID] = r
	return r, nil
}

// Remove deletes a route by ID. Removing an unknown ID is a no-op.
func (s *Store) Remove(id string) {
	delete(s.routes, id)
}

// Get looks up a route by ID.
func (s *Store) Get(id string) (Route, bool) {
	r, ok := s.routes[id]
	return r, ok
}

// All returns the routes ordered by creation time, oldest first.
func (s *Store) All() []Route {
	out := make([]Route, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len reports the number of stored routes.
func (s *Store) Len() int {
	return len(s.routes)
}
