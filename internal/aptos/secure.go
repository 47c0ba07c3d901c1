package aptos

import (
	"runtime"
	"sync"
)

// secretKey holds ed25519 private key material in memory that is locked
// against swapping when the platform allows and zeroed on Destroy.
type secretKey struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// newSecretKey copies b into locked memory. The caller should zero b.
func newSecretKey(b []byte, lock bool) *secretKey {
	s := &secretKey{data: make([]byte, len(b))}
	copy(s.data, b)
	if lock {
		s.locked = mlock(s.data)
	}
	runtime.SetFinalizer(s, (*secretKey).Destroy)
	return s
}

// Bytes returns the key material, or nil once destroyed.
func (s *secretKey) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Locked reports whether the memory is mlocked.
func (s *secretKey) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeroes and unlocks the memory. Safe to call more than once.
func (s *secretKey) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return
	}
	clear(s.data)
	if s.locked {
		munlock(s.data)
		s.locked = false
	}
	s.data = nil
	runtime.SetFinalizer(s, nil)
}
