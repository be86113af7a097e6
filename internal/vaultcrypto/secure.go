package vaultcrypto

import (
	"errors"
	"runtime"
	"sync"
)

// ErrBufferDestroyed indicates the secure buffer was already zeroed and released.
var ErrBufferDestroyed = errors.New("secure buffer destroyed")

// SecureBytes holds sensitive byte data with secure memory handling:
// best-effort mlock, mutex-guarded access, and guaranteed zeroing on
// Destroy with a finalizer backstop.
type SecureBytes struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// NewSecureBytes allocates a zeroed secure buffer of the given size.
func NewSecureBytes(size int) *SecureBytes {
	sb := &SecureBytes{data: make([]byte, size)}

	// Best effort; not all systems grant mlock.
	sb.locked = mlock(sb.data)

	runtime.SetFinalizer(sb, (*SecureBytes).Destroy)
	return sb
}

// FromSlice copies data into a new secure buffer. The caller retains
// ownership of the source slice and should zero it separately.
func FromSlice(data []byte) *SecureBytes {
	sb := NewSecureBytes(len(data))
	copy(sb.data, data)
	return sb
}

// Bytes returns the underlying slice, or nil after Destroy.
// Prefer WithBytes when the data must not be destroyed mid-use.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// WithBytes runs fn with the buffer contents while holding the buffer
// lock, so a concurrent Destroy cannot zero the data mid-use. Returns
// ErrBufferDestroyed if the buffer was already released. fn must not
// retain the slice or call back into this buffer.
func (s *SecureBytes) WithBytes(fn func([]byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return ErrBufferDestroyed
	}
	return fn(s.data)
}

// Len returns the buffer length, or 0 after Destroy.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// IsLocked reports whether the memory is mlocked.
func (s *SecureBytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeroes the buffer and releases it. Safe to call multiple times.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	Zero(s.data)

	if s.locked {
		munlock(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// Zero overwrites a byte slice in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
