package usage

import (
	"sync"
	"testing"
)

func TestCountStartsAtZero(t *testing.T) {
	c := NewCounter()
	if got := c.Count(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestTouchDeduplicates(t *testing.T) {
	c := NewCounter()
	for i := 0; i < 5; i++ {
		c.Touch(100)
	}
	c.Touch(200)
	c.Touch(300)

	if got := c.Count(); got != 3 {
		t.Fatalf("expected 3 distinct users, got %d", got)
	}
}

func TestCounterConcurrentTouch(t *testing.T) {
	c := NewCounter()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c.Touch(id)
		}(int64(i % 8))
	}
	wg.Wait()

	if got := c.Count(); got != 8 {
		t.Fatalf("expected 8 distinct users, got %d", got)
	}
}
