package usecase

import "sync"

const defaultLockStripes = 64

// conversationLocks is a fixed set of mutexes striped by conversation id.
// Two conversations may share a stripe; one conversation always maps to the
// same stripe.
type conversationLocks struct {
	stripes []sync.Mutex
	mask    uint64
}

// newConversationLocks rounds n up to a power of two.
func newConversationLocks(n int) *conversationLocks {
	size := 1
	for size < n {
		size <<= 1
	}
	return &conversationLocks{
		stripes: make([]sync.Mutex, size),
		mask:    uint64(size - 1),
	}
}

func (l *conversationLocks) lock(conversationID int64) (unlock func()) {
	mu := &l.stripes[uint64(conversationID)&l.mask]
	mu.Lock()
	return mu.Unlock
}
