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

// Package sv39 describes the RISC-V Sv39 address geometry: 39-bit virtual
// addresses, 4 KiB pages, and a three-level page table indexed by three
// 9-bit fields of the virtual page number.
package sv39

// Page geometry.
const (
	// PageShift is the binary log of the page size.
	PageShift = 12

	// PageSize is the size of a page in bytes.
	PageSize = 1 << PageShift

	// LevelBits is the width of one page-table index field.
	LevelBits = 9

	// Levels is the number of page-table levels.
	Levels = 3

	// PTEsPerPage is the number of entries in one table page.
	PTEsPerPage = 1 << LevelBits

	// MaxVA is the lowest virtual address outside the Sv39 range.
	MaxVA = Addr(1) << (PageShift + Levels*LevelBits)
)

// Addr represents a virtual byte address.
type Addr uint64

// PhysPageNum identifies one physical page frame.
type PhysPageNum uint64

// VirtPageNum identifies one virtual page.
type VirtPageNum uint64

// RoundDown returns the address rounded down to the nearest page boundary.
func (v Addr) RoundDown() Addr {
	return v &^ (PageSize - 1)
}

// RoundUp returns the address rounded up to the nearest page boundary. ok is
// false iff rounding up wrapped around.
func (v Addr) RoundUp() (addr Addr, ok bool) {
	addr = (v + PageSize - 1).RoundDown()
	return addr, addr >= v
}

// PageOffset returns the offset of the address within its page.
func (v Addr) PageOffset() uint64 {
	return uint64(v) & (PageSize - 1)
}

// PageAligned returns true iff the address is a page boundary.
func (v Addr) PageAligned() bool {
	return v.PageOffset() == 0
}

// Floor returns the virtual page containing the address.
func (v Addr) Floor() VirtPageNum {
	return VirtPageNum(v >> PageShift)
}

// AddLength returns v + length. ok is false iff the sum wrapped around.
func (v Addr) AddLength(length uint64) (end Addr, ok bool) {
	end = v + Addr(length)
	return end, end >= v
}

// Addr returns the first byte address of the page.
func (v VirtPageNum) Addr() Addr {
	return Addr(v) << PageShift
}

// Indexes decomposes the virtual page number into its three page-table
// index fields, most-significant level first.
func (v VirtPageNum) Indexes() [Levels]uint16 {
	var idx [Levels]uint16
	n := uint64(v)
	for i := Levels - 1; i >= 0; i-- {
		idx[i] = uint16(n & (PTEsPerPage - 1))
		n >>= LevelBits
	}
	return idx
}
