package keylock

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := NewKeyedMutex()

	var mu sync.Mutex
	inCritical := 0
	maxObserved := 0

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("device-1")
			defer locks.Unlock("device-1")

			mu.Lock()
			inCritical++
			if inCritical > maxObserved {
				maxObserved = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxObserved != 1 {
		t.Fatalf("critical section shared between holders of the same key: %d", maxObserved)
	}
}

func TestKeyedMutexAllowsDistinctKeys(t *testing.T) {
	locks := NewKeyedMutex()
	locks.Lock("a")
	defer locks.Unlock("a")

	done := make(chan struct{})
	go func() {
		locks.Lock("b")
		locks.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedRWMutexReadersShareWritersExclude(t *testing.T) {
	locks := NewKeyedRWMutex()

	locks.RLock("ds-1")
	secondReader := make(chan struct{})
	go func() {
		locks.RLock("ds-1")
		locks.RUnlock("ds-1")
		close(secondReader)
	}()
	select {
	case <-secondReader:
	case <-time.After(time.Second):
		t.Fatal("readers on the same key did not share")
	}

	writerIn := make(chan struct{})
	go func() {
		locks.Lock("ds-1")
		locks.Unlock("ds-1")
		close(writerIn)
	}()
	select {
	case <-writerIn:
		t.Fatal("writer acquired the key while a reader held it")
	case <-time.After(50 * time.Millisecond):
	}

	locks.RUnlock("ds-1")
	select {
	case <-writerIn:
	case <-time.After(time.Second):
		t.Fatal("writer never acquired the key after readers left")
	}
}
