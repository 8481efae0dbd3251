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

// Package memory provides the machine's simulated physical memory and the
// frame provider that hands out exclusively-owned page frames from it.
package memory

import (
	"fmt"

	"github.com/picokern/picokern/pkg/sv39"
)

// Physical is the machine's physical memory, addressed at page granularity
// by physical page number. Frame zero is reserved so that a zero PPN can
// never denote a live frame.
type Physical struct {
	ram    []byte
	npages uint64
}

// NewPhysical returns physical memory of npages frames.
func NewPhysical(npages uint64) *Physical {
	if npages < 2 {
		panic("memory: physical memory needs at least one usable frame")
	}
	return &Physical{
		ram:    make([]byte, npages*sv39.PageSize),
		npages: npages,
	}
}

// NumPages returns the total number of frames, including the reserved one.
func (p *Physical) NumPages() uint64 {
	return p.npages
}

// PageBytes returns the byte contents of the given frame. The returned
// slice aliases physical memory: writes through it are visible to every
// mapping of the frame.
func (p *Physical) PageBytes(ppn sv39.PhysPageNum) []byte {
	if uint64(ppn) >= p.npages {
		panic(fmt.Sprintf("memory: PPN %d out of range (%d frames)", ppn, p.npages))
	}
	off := uint64(ppn) * sv39.PageSize
	return p.ram[off : off+sv39.PageSize : off+sv39.PageSize]
}

// ZeroPage clears the given frame.
func (p *Physical) ZeroPage(ppn sv39.PhysPageNum) {
	clear(p.PageBytes(ppn))
}
