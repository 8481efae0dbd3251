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

package kernel

import (
	"github.com/picokern/picokern/pkg/memory"
	"github.com/picokern/picokern/pkg/pagetables"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
	"github.com/picokern/picokern/pkg/usermem"
)

// AddressSpace is a task's view of memory: a private page table plus
// ownership of the data frames mapped into it. Directory frames belong to
// the page table; data frames belong here.
type AddressSpace struct {
	pt     *pagetables.PageTables
	alloc  *memory.FrameAllocator
	frames []*memory.FrameTracker
	brk    sv39.Addr
}

// NewAddressSpace creates an empty address space backed by alloc.
func NewAddressSpace(mem *memory.Physical, alloc *memory.FrameAllocator) (*AddressSpace, error) {
	pt, err := pagetables.New(mem, alloc)
	if err != nil {
		return nil, err
	}
	return &AddressSpace{pt: pt, alloc: alloc}, nil
}

// PageTables returns the backing page table.
func (as *AddressSpace) PageTables() *pagetables.PageTables {
	return as.pt
}

// Token returns the address-space token describing the root to hardware.
func (as *AddressSpace) Token() uint64 {
	return as.pt.Token()
}

// MMap maps length bytes of fresh zeroed memory at addr with the access
// described by port (bit 0 read, bit 1 write, bit 2 execute). addr must be
// page-aligned, length must be nonzero, and port must name at least one
// permission with no bits beyond the low three set. On any failure nothing
// is mapped.
func (as *AddressSpace) MMap(addr sv39.Addr, length uint64, port uint64) error {
	if port&^7 != 0 || port&7 == 0 {
		return syserror.ErrInvalidArgument
	}
	at := sv39.AccessTypeFromPort(port)
	frames, err := usermem.MapRange(as.pt, as.alloc, addr, length, at)
	if err != nil {
		return err
	}
	as.frames = append(as.frames, frames...)
	return nil
}

// MUnmap removes the translations covering [addr, addr+length). The data
// frames stay owned by the address space and are returned to the allocator
// only on Destroy. Fails without change if any page in the range is not
// mapped.
func (as *AddressSpace) MUnmap(addr sv39.Addr, length uint64) error {
	return usermem.UnmapRange(as.pt, addr, length)
}

// SetBrk adjusts the program break by delta bytes and returns the old
// break. A zero delta reads the break without changing it.
//
// The break is bookkeeping only: pages are mapped via MMap, not here.
func (as *AddressSpace) SetBrk(delta int64) sv39.Addr {
	old := as.brk
	as.brk = sv39.Addr(uint64(as.brk) + uint64(delta))
	return old
}

// CopyOut writes b to the address space at addr, checking write access.
func (as *AddressSpace) CopyOut(addr sv39.Addr, b []byte) (int, error) {
	return usermem.CopyOut(as.pt, addr, b)
}

// CopyIn reads len(b) bytes from the address space at addr into b,
// checking read access.
func (as *AddressSpace) CopyIn(addr sv39.Addr, b []byte) (int, error) {
	return usermem.CopyIn(as.pt, addr, b)
}

// TranslateRange resolves [addr, addr+length) to physical page slices.
func (as *AddressSpace) TranslateRange(addr sv39.Addr, length uint64) ([][]byte, error) {
	return usermem.TranslateRange(as.pt, addr, length)
}

// Destroy releases every data frame and the page table. The address space
// must not be used afterwards.
func (as *AddressSpace) Destroy() {
	for _, f := range as.frames {
		f.Release()
	}
	as.frames = nil
	as.pt.Release()
}
