package utils

import "sync"

var keyedLocks sync.Map

// lockKey serializes in-process work on a shared key (one event's capacity
// counters, one ticket's status). The conditional writes in the ledger still
// guard against other processes; this keeps a single instance from ever
// racing itself on check-then-act.
func lockKey(key string) func() {
	v, _ := keyedLocks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
