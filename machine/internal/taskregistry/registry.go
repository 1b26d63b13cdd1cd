package taskregistry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Registry tracks in-flight tasks by effect key with single-flight semantics:
// registering a key that is already present cancels the previous task's
// context before the new handle is stored. Cancellation is cooperative; the
// replaced task observes it via its context and drains on its own.
//
// The map is sharded by key hash so detached task goroutines deregistering
// themselves do not contend with the run loop on a single lock.
type Registry struct {
	shards []shard
	tokens atomic.Uint64
}

type shard struct {
	mu    sync.Mutex
	tasks map[string]entry
}

type entry struct {
	token  uint64
	cancel context.CancelFunc
}

func New(numShards int) *Registry {
	if numShards <= 0 {
		numShards = 1
	}
	r := &Registry{shards: make([]shard, numShards)}
	for i := range r.shards {
		r.shards[i].tasks = make(map[string]entry)
	}
	return r
}

func (r *Registry) shardOf(key string) *shard {
	switch len(r.shards) {
	case 1:
		return &r.shards[0]
	default:
		return &r.shards[xxhash.Sum64String(key)%uint64(len(r.shards))]
	}
}

// Register stores cancel under key, cancelling any previous task registered
// there. The returned token identifies this registration for Deregister.
func (r *Registry) Register(key string, cancel context.CancelFunc) uint64 {
	token := r.tokens.Add(1)
	s := r.shardOf(key)
	s.mu.Lock()
	prev, ok := s.tasks[key]
	s.tasks[key] = entry{token: token, cancel: cancel}
	s.mu.Unlock()
	if ok {
		prev.cancel()
	}
	return token
}

// Deregister removes key, but only if it still belongs to the registration
// identified by token. A finished task must not evict its replacement.
func (r *Registry) Deregister(key string, token uint64) {
	s := r.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.tasks[key]; ok && cur.token == token {
		delete(s.tasks, key)
	}
}

// Cancel cancels and removes the task registered under key.
// A miss is not an error.
func (r *Registry) Cancel(key string) {
	s := r.shardOf(key)
	s.mu.Lock()
	cur, ok := s.tasks[key]
	delete(s.tasks, key)
	s.mu.Unlock()
	if ok {
		cur.cancel()
	}
}

// CancelAll cancels and removes every registered task.
func (r *Registry) CancelAll() {
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		cancels := make([]context.CancelFunc, 0, len(s.tasks))
		for _, e := range s.tasks {
			cancels = append(cancels, e.cancel)
		}
		s.tasks = make(map[string]entry)
		s.mu.Unlock()
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// Len reports the number of registered tasks.
func (r *Registry) Len() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.tasks)
		s.mu.Unlock()
	}
	return n
}
