// Copyright 2026 The picokern Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"fmt"

	"github.com/picokern/picokern/pkg/log"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/sync"
	"github.com/picokern/picokern/pkg/syserror"
)

// FrameTracker exclusively owns one physical frame. Releasing it returns
// the frame to the pool; the frame must not be touched afterwards.
type FrameTracker struct {
	ppn      sv39.PhysPageNum
	alloc    *FrameAllocator
	released bool
}

// PPN returns the owned frame's physical page number.
func (f *FrameTracker) PPN() sv39.PhysPageNum {
	return f.ppn
}

// Release returns the frame to the pool. Releasing twice panics: it means
// two owners believed they held the frame exclusively.
func (f *FrameTracker) Release() {
	if f.released {
		panic(fmt.Sprintf("memory: frame %d released twice", f.ppn))
	}
	f.released = true
	f.alloc.free(f.ppn)
}

// FrameAllocator is the frame provider: a watermark allocator with a
// recycle stack over a fixed PPN range.
type FrameAllocator struct {
	mem *Physical

	mu sync.CheckedMutex

	// current is the next never-allocated PPN; end is one past the last
	// usable PPN. Both guarded by mu.
	current sv39.PhysPageNum
	end     sv39.PhysPageNum

	// recycled holds freed PPNs for reuse, guarded by mu.
	recycled []sv39.PhysPageNum
}

// NewFrameAllocator returns an allocator handing out every frame of mem
// except the reserved frame zero.
func NewFrameAllocator(mem *Physical) *FrameAllocator {
	return &FrameAllocator{
		mem:     mem,
		mu:      sync.NewCheckedMutex("frame pool"),
		current: 1,
		end:     sv39.PhysPageNum(mem.NumPages()),
	}
}

// Alloc acquires an owned, zeroed frame. It fails with ErrNoFrame when the
// pool is exhausted.
func (a *FrameAllocator) Alloc() (*FrameTracker, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var ppn sv39.PhysPageNum
	if n := len(a.recycled); n > 0 {
		ppn = a.recycled[n-1]
		a.recycled = a.recycled[:n-1]
	} else if a.current < a.end {
		ppn = a.current
		a.current++
	} else {
		log.Debugf("frame pool exhausted: %d frames in use", a.end-1)
		return nil, syserror.ErrNoFrame
	}
	a.mem.ZeroPage(ppn)
	return &FrameTracker{ppn: ppn, alloc: a}, nil
}

// Free returns the number of frames still available.
func (a *FrameAllocator) Free() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return uint64(a.end-a.current) + uint64(len(a.recycled))
}

func (a *FrameAllocator) free(ppn sv39.PhysPageNum) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ppn == 0 || ppn >= a.end {
		panic(fmt.Sprintf("memory: freeing PPN %d outside pool", ppn))
	}
	a.recycled = append(a.recycled, ppn)
}
