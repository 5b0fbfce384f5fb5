package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", 3) // evicts b, a was used more recently

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("other", "v")
	now = now.Add(500 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(time.Second)
	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired() = %d, want 2", n)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("entry should be expired")
	}
}

func TestLRUCache_GetOrLoad(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	var calls int32
	release := make(chan struct{})
	load := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("report", load)
			if err != nil || v != 42 {
				t.Errorf("GetOrLoad = %d, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n < 1 || n > 8 {
		t.Fatalf("load calls = %d", n)
	}
	// now cached: no further loads
	before := atomic.LoadInt32(&calls)
	if v, _ := c.GetOrLoad("report", load); v != 42 {
		t.Fatalf("cached value = %d", v)
	}
	if atomic.LoadInt32(&calls) != before {
		t.Error("cached key should not reload")
	}
}

func TestLRUCache_GetOrLoadError(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	boom := errors.New("boom")
	if _, err := c.GetOrLoad("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if c.Size() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestManager_CleanNowAndStop(t *testing.T) {
	now := time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](4, time.Second)
	c.now = func() time.Time { return now }
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	now = now.Add(2 * time.Second)
	if n := m.CleanNow(); n != 1 {
		t.Errorf("CleanNow() = %d", n)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

func TestManager_StartCleanupNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		m := NewManager()
		m.StartCleanup(interval)
		m.Stop()
	}
}
