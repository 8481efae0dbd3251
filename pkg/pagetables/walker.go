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

package pagetables

import (
	"encoding/binary"

	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

// slot addresses one entry within a table frame. Entries are stored in
// simulated physical memory little-endian, eight bytes each, exactly as the
// hardware walker would read them.
type slot struct {
	ppn sv39.PhysPageNum
	idx uint16
}

func (s slot) load(p *PageTables) PTE {
	b := p.mem.PageBytes(s.ppn)
	return PTE(binary.LittleEndian.Uint64(b[int(s.idx)*8:]))
}

func (s slot) store(p *PageTables, pte PTE) {
	b := p.mem.PageBytes(s.ppn)
	binary.LittleEndian.PutUint64(b[int(s.idx)*8:], uint64(pte))
}

// walk locates the leaf slot for vpn without side effects. It fails with
// ErrNotMapped if an intermediate level is invalid. The leaf itself may be
// invalid; callers check.
func (p *PageTables) walk(vpn sv39.VirtPageNum) (slot, error) {
	idxs := vpn.Indexes()
	node := p.root
	for level := 0; level < sv39.Levels-1; level++ {
		s := slot{node, idxs[level]}
		pte := s.load(p)
		if !pte.Valid() {
			return slot{}, syserror.ErrNotMapped
		}
		node = pte.PPN()
	}
	return slot{node, idxs[sv39.Levels-1]}, nil
}

// walkCreate locates the leaf slot for vpn, allocating a directory frame
// for each invalid intermediate entry. New directory frames are owned by
// the tree (recorded for Release) when it is an owning tree; a token view
// leaves them to the owner, which keeps the tree itself consistent either
// way. Allocation failure surfaces as ErrNoFrame.
func (p *PageTables) walkCreate(vpn sv39.VirtPageNum) (slot, error) {
	idxs := vpn.Indexes()
	node := p.root
	for level := 0; level < sv39.Levels-1; level++ {
		s := slot{node, idxs[level]}
		pte := s.load(p)
		if !pte.Valid() {
			frame, err := p.alloc.Alloc()
			if err != nil {
				return slot{}, err
			}
			if p.frames != nil {
				p.frames = append(p.frames, frame)
			}
			pte = MakePTE(frame.PPN(), FlagValid)
			s.store(p, pte)
		}
		node = pte.PPN()
	}
	return slot{node, idxs[sv39.Levels-1]}, nil
}

// iterate visits every valid leaf entry in ascending VPN order.
func (p *PageTables) iterate(fn func(vpn sv39.VirtPageNum, pte PTE)) {
	p.iterateNode(p.root, 0, 0, fn)
}

func (p *PageTables) iterateNode(node sv39.PhysPageNum, level int, base sv39.VirtPageNum, fn func(sv39.VirtPageNum, PTE)) {
	for idx := uint16(0); idx < sv39.PTEsPerPage; idx++ {
		pte := slot{node, idx}.load(p)
		if !pte.Valid() {
			continue
		}
		vpn := base<<sv39.LevelBits | sv39.VirtPageNum(idx)
		if level == sv39.Levels-1 {
			fn(vpn, pte)
		} else {
			p.iterateNode(pte.PPN(), level+1, vpn, fn)
		}
	}
}
