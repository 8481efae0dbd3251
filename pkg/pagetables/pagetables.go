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

// Package pagetables implements the three-level Sv39 page table, walked in
// software over simulated physical memory.
//
// A PageTables owns the frames backing its directory nodes, including the
// root. Frames holding mapped user data are never owned here; their
// lifetime belongs to the address space that mapped them.
package pagetables

import (
	"github.com/picokern/picokern/pkg/memory"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

// Token format: bits [63:60] hold the paging mode, bits [43:0] the root
// physical page number. This matches the satp register layout.
const (
	tokenModeSv39 uint64 = 8 << 60
	tokenPPNMask  uint64 = (1 << 44) - 1
)

// PageTables is one address space's page table tree.
type PageTables struct {
	mem   *memory.Physical
	alloc *memory.FrameAllocator

	root sv39.PhysPageNum

	// frames are the directory frames this tree owns, root first. nil for
	// transient views built from a token.
	frames []*memory.FrameTracker
}

// New creates an empty page table, allocating its root directory frame.
func New(mem *memory.Physical, alloc *memory.FrameAllocator) (*PageTables, error) {
	root, err := alloc.Alloc()
	if err != nil {
		return nil, err
	}
	return &PageTables{
		mem:    mem,
		alloc:  alloc,
		root:   root.PPN(),
		frames: []*memory.FrameTracker{root},
	}, nil
}

// NewFromToken reconstructs a non-owning view over an existing tree from
// its token. The view translates and may install mappings on behalf of the
// owner, but it must never be Released: it does not own any frame.
func NewFromToken(mem *memory.Physical, alloc *memory.FrameAllocator, token uint64) *PageTables {
	return &PageTables{
		mem:   mem,
		alloc: alloc,
		root:  sv39.PhysPageNum(token & tokenPPNMask),
	}
}

// Token returns the satp-format handle for this tree.
func (p *PageTables) Token() uint64 {
	return tokenModeSv39 | uint64(p.root)
}

// Memory returns the physical memory the tree lives in.
func (p *PageTables) Memory() *memory.Physical {
	return p.mem
}

// Release frees the directory frames the tree owns. Calling Release on a
// token view panics; data frames are untouched either way.
func (p *PageTables) Release() {
	if p.frames == nil {
		panic("pagetables: Release on a non-owning view")
	}
	for _, f := range p.frames {
		f.Release()
	}
	p.frames = nil
}

// Map installs a leaf mapping vpn -> ppn with the given permission flags
// plus Valid, allocating directory frames for missing intermediate levels.
// Mapping an already-valid page fails with ErrAlreadyMapped and leaves the
// existing entry untouched.
func (p *PageTables) Map(vpn sv39.VirtPageNum, ppn sv39.PhysPageNum, flags PTEFlags) error {
	s, err := p.walkCreate(vpn)
	if err != nil {
		return err
	}
	if s.load(p).Valid() {
		return syserror.ErrAlreadyMapped
	}
	s.store(p, MakePTE(ppn, flags|FlagValid))
	return nil
}

// Unmap clears the leaf entry for vpn. It fails with ErrNotMapped if no
// valid entry exists. The data frame is not freed; its owner keeps it.
func (p *PageTables) Unmap(vpn sv39.VirtPageNum) error {
	s, err := p.walk(vpn)
	if err != nil {
		return err
	}
	if !s.load(p).Valid() {
		return syserror.ErrNotMapped
	}
	s.store(p, 0)
	return nil
}

// Translate returns the leaf entry for vpn. It fails with ErrNotMapped if
// any level along the walk, including the leaf, is invalid. Translation
// never allocates.
func (p *PageTables) Translate(vpn sv39.VirtPageNum) (PTE, error) {
	s, err := p.walk(vpn)
	if err != nil {
		return 0, err
	}
	pte := s.load(p)
	if !pte.Valid() {
		return 0, syserror.ErrNotMapped
	}
	return pte, nil
}
