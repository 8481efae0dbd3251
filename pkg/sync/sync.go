// Copyright 2026 The picokern Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd.

// Package sync provides synchronization primitives for the kernel.
//
// The kernel is strictly single-core and cooperative: at most one control
// flow (the idle flow or the current task flow) runs at a time, and a flow
// never suspends while holding exclusive access to shared state. The
// CheckedMutex below enforces that discipline at runtime instead of
// assuming it: any acquisition that would block is a kernel bug, not a
// wait, and panics loudly.
package sync

import (
	"fmt"
	"sync"
)

// Aliases of standard library types.
type (
	// Mutex is an alias of sync.Mutex.
	Mutex = sync.Mutex

	// RWMutex is an alias of sync.RWMutex.
	RWMutex = sync.RWMutex

	// Locker is an alias of sync.Locker.
	Locker = sync.Locker

	// Once is an alias of sync.Once.
	Once = sync.Once

	// WaitGroup is an alias of sync.WaitGroup.
	WaitGroup = sync.WaitGroup
)

// CheckedMutex is a mutual-exclusion primitive for state that is only ever
// touched by one control flow at a time. Unlike a plain Mutex it never
// waits: Lock panics if the mutex is already held, since on a single core a
// second acquisition can only mean a flow re-entered an accessor it had no
// business re-entering, or suspended while holding the lock.
type CheckedMutex struct {
	// name identifies the protected state in panic messages.
	name string

	mu sync.Mutex
}

// NewCheckedMutex returns a CheckedMutex identified by name.
func NewCheckedMutex(name string) CheckedMutex {
	return CheckedMutex{name: name}
}

// Lock acquires the mutex. It panics instead of blocking.
func (m *CheckedMutex) Lock() {
	if !m.mu.TryLock() {
		panic(fmt.Sprintf("sync: exclusive access to %q violated: already held", m.name))
	}
}

// Unlock releases the mutex.
func (m *CheckedMutex) Unlock() {
	m.mu.Unlock()
}
