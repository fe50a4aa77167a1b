package route

import (
	"errors"
	"testing"
	"time"

	"ourtime/internal/api"
)

func TestAddGeneratesDistinctIDs(t *testing.T) {
	s := NewStore()
	r1, err := s.Add("day one", "", []int64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := s.Add("day two", "", []int64{2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if r1.ID == "" || r1.ID == r2.ID {
		t.Errorf("ids must be distinct and non-empty, got %q and %q", r1.ID, r2.ID)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestAddKeepsOptionalDescription(t *testing.T) {
	s := NewStore()
	r, err := s.Add("weekend", "two days around Bukchon", []int64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(r.ID)
	if got.Description != "two days around Bukchon" {
		t.Errorf("Description = %q", got.Description)
	}

	// The description stays optional.
	if _, err := s.Add("no notes", "", []int64{3, 4}); err != nil {
		t.Errorf("empty description must be allowed: %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	s := NewStore()

	_, err := s.Add("", "", []int64{1, 2})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Field != "name" {
		t.Errorf("empty name: got %v, want validation error on name", err)
	}

	_, err = s.Add("solo", "", []int64{1})
	if !errors.As(err, &apiErr) || apiErr.Field != "memoryIds" {
		t.Errorf("single stop: got %v, want validation error on memoryIds", err)
	}
	if s.Len() != 0 {
		t.Errorf("invalid routes must not be stored, Len = %d", s.Len())
	}
}

func TestAddCopiesMemoryIDs(t *testing.T) {
	s := NewStore()
	ids := []int64{1, 2, 3}
	r, err := s.Add("trip", "", ids)
	if err != nil {
		t.Fatal(err)
	}
	ids[0] = 99
	got, _ := s.Get(r.ID)
	if got.MemoryIDs[0] != 1 {
		t.Error("store must not alias the caller's slice")
	}
}

func TestRemoveAndGet(t *testing.T) {
	s := NewStore()
	r, _ := s.Add("trip", "", []int64{1, 2})

	if _, ok := s.Get(r.ID); !ok {
		t.Fatal("stored route not found")
	}
	s.Remove(r.ID)
	if _, ok := s.Get(r.ID); ok {
		t.Error("removed route still present")
	}
	s.Remove("no-such-id") // no-op
}

func TestAllOrdersByCreation(t *testing.T) {
	s := NewStore()
	first, _ := s.Add("first", "", []int64{1, 2})
	time.Sleep(2 * time.Millisecond)
	second, _ := s.Add("second", "", []int64{3, 4})

	all := s.All()
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("All() order wrong: %v", []string{all[0].Name, all[1].Name})
	}
	if all[0].CreatedAt.After(second.CreatedAt) {
		t.Error("creation times out of order")
	}
}
