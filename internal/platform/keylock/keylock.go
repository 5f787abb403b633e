// Package keylock provides named mutexes for serializing work on a single
// aggregate (one target, one distribution set) without a global lock.
package keylock

import "sync"

// KeyedMutex hands out one mutex per key. Callers on different keys proceed
// in parallel; callers on the same key are mutually exclusive.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()
	lock.Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	k.mu.Unlock()
	if ok {
		lock.Unlock()
	}
}

// KeyedRWMutex is the read/write variant. Readers on a key share it, a writer
// on the same key excludes everyone.
type KeyedRWMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func NewKeyedRWMutex() *KeyedRWMutex {
	return &KeyedRWMutex{locks: make(map[string]*sync.RWMutex)}
}

func (k *KeyedRWMutex) resolve(key string) *sync.RWMutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.RWMutex{}
		k.locks[key] = lock
	}
	return lock
}

func (k *KeyedRWMutex) Lock(key string)    { k.resolve(key).Lock() }
func (k *KeyedRWMutex) Unlock(key string)  { k.resolve(key).Unlock() }
func (k *KeyedRWMutex) RLock(key string)   { k.resolve(key).RLock() }
func (k *KeyedRWMutex) RUnlock(key string) { k.resolve(key).RUnlock() }
