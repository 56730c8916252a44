package lock

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMutexMap_LockUnlock(t *testing.T) {
	m := NewMutexMap()

	m.Lock("permissions")
	m.Unlock("permissions")

	// Should be able to lock again
	m.Lock("permissions")
	m.Unlock("permissions")
}

func TestMutexMap_DifferentKeys(t *testing.T) {
	m := NewMutexMap()

	done := make(chan struct{})

	m.Lock("permissions")
	go func() {
		// run state should not be blocked by the permission key
		m.Lock("run_state")
		m.Unlock("run_state")
		close(done)
	}()

	<-done
	m.Unlock("permissions")
}

func TestMutexMap_Concurrent(t *testing.T) {
	m := NewMutexMap()
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("shared")
			atomic.AddInt64(&counter, 1)
			m.Unlock("shared")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected counter=100, got %d", counter)
	}
}

func TestFileLock_TryLock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.lock")

	fl := NewFileLock(path)
	if err := fl.TryLock(); err != nil {
		t.Fatalf("first TryLock failed: %v", err)
	}

	second := NewFileLock(path)
	if err := second.TryLock(); err == nil {
		second.Unlock()
		t.Fatal("second TryLock should fail while first holds the lock")
	}

	if err := fl.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	third := NewFileLock(path)
	if err := third.TryLock(); err != nil {
		t.Fatalf("TryLock after release failed: %v", err)
	}
	third.Unlock()
}
