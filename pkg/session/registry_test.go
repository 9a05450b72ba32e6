package session

import (
	"sync"
	"testing"
)

func TestRegistryPutAndGet(t *testing.T) {
	r := NewRegistry()
	s := New("CA1", "sys")

	if prior := r.Put(s); prior != nil {
		t.Error("expected no prior session")
	}
	if got := r.Get("CA1"); got != s {
		t.Error("Get returned wrong session")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestRegistryReplacesDuplicateCallID(t *testing.T) {
	r := NewRegistry()
	old := New("CA1", "sys")
	r.Put(old)

	replacement := New("CA1", "sys")
	prior := r.Put(replacement)

	if prior != old {
		t.Error("expected prior session returned on replacement")
	}
	if got := r.Get("CA1"); got != replacement {
		t.Error("replacement not registered")
	}
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}

func TestRegistryRemoveOnlyMatchingSession(t *testing.T) {
	r := NewRegistry()
	old := New("CA1", "sys")
	r.Put(old)
	replacement := New("CA1", "sys")
	r.Put(replacement)

	// Teardown of the replaced connection must not evict the new one.
	r.Remove("CA1", old)
	if got := r.Get("CA1"); got != replacement {
		t.Error("replaced session teardown evicted the replacement")
	}

	r.Remove("CA1", replacement)
	if r.Get("CA1") != nil {
		t.Error("session not removed")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			callID := "CA" + string('0'+id)
			for j := 0; j < 200; j++ {
				s := New(callID, "sys")
				r.Put(s)
				r.Get(callID)
				r.Remove(callID, s)
			}
		}(byte(i))
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("len = %d, want 0", r.Len())
	}
}
