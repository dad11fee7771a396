package chat

import (
	"sort"
	"sync"
)

// NameRegistry tracks every display name currently in use across the
// process. A name is checked out by exactly one session at a time and must
// be returned with Release on disconnect or rename.
type NameRegistry struct {
	mu     sync.Mutex
	inUse  map[string]struct{}
	source func() string
}

// NewNameRegistry creates an empty registry drawing candidates from source.
func NewNameRegistry(source func() string) *NameRegistry {
	return &NameRegistry{
		inUse:  make(map[string]struct{}),
		source: source,
	}
}

// AllocateUnique draws candidates from the name source until one inserts
// cleanly and returns it. The whole loop runs under the registry lock, so
// the source is never called concurrently and need not be safe for it. The
// source's pool dwarfs any realistic connection count; exhausting it would
// be a misconfiguration of the source, not a condition this loop recovers
// from.
func (r *NameRegistry) AllocateUnique() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		name := r.source()
		if _, taken := r.inUse[name]; !taken {
			r.inUse[name] = struct{}{}
			return name
		}
	}
}

// TryRegister atomically claims name if it is not already held. It reports
// whether the claim succeeded.
func (r *NameRegistry) TryRegister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.inUse[name]; taken {
		return false
	}
	r.inUse[name] = struct{}{}
	return true
}

// Release frees name. Releasing a name that is not held is a no-op.
func (r *NameRegistry) Release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inUse, name)
}

// Snapshot returns a sorted point-in-time copy of every name in use.
func (r *NameRegistry) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.inUse))
	for name := range r.inUse {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
