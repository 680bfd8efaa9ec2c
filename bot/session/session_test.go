package session

import (
	"sync"
	"testing"
)

func TestQueryLastWriteWins(t *testing.T) {
	s := NewStore()
	s.SetQuery(1, "first song")
	s.SetQuery(1, "second song")

	got, ok := s.Query(1)
	if !ok {
		t.Fatal("expected a pending query")
	}
	if got != "second song" {
		t.Fatalf("expected latest query, got %q", got)
	}
}

func TestQueryEmptyStringIsStillPending(t *testing.T) {
	s := NewStore()
	s.SetQuery(1, "")

	got, ok := s.Query(1)
	if !ok {
		t.Fatal("stored empty query must count as pending")
	}
	if got != "" {
		t.Fatalf("expected empty query, got %q", got)
	}

	s.Clear(1)
	if _, ok := s.Query(1); ok {
		t.Fatal("expected no pending query after clear")
	}
}

func TestQueryMissing(t *testing.T) {
	s := NewStore()
	if _, ok := s.Query(42); ok {
		t.Fatal("expected no pending query for unknown user")
	}
}

func TestClearResetsSession(t *testing.T) {
	s := NewStore()
	s.SetQuery(7, "some song")
	s.SetFormat(7, FormatBoth)
	s.Clear(7)

	if _, ok := s.Query(7); ok {
		t.Fatal("expected query to be gone after clear")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.SetQuery(id, "song")
			s.SetFormat(id, FormatMusic)
			s.Query(id)
			s.Clear(id)
		}(int64(i % 4))
	}
	wg.Wait()
}
