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
	"fmt"

	"github.com/picokern/picokern/pkg/sv39"
)

// PTEFlags is the flag bitset of a page table entry.
type PTEFlags uint8

// PTE flag values, in hardware bit order.
const (
	FlagValid PTEFlags = 1 << iota
	FlagRead
	FlagWrite
	FlagExecute
	FlagUser
	FlagGlobal
	FlagAccessed
	FlagDirty
)

// FlagsFromAccess returns the permission flags requesting the given access.
func FlagsFromAccess(at sv39.AccessType) PTEFlags {
	var flags PTEFlags
	if at.Read {
		flags |= FlagRead
	}
	if at.Write {
		flags |= FlagWrite
	}
	if at.Execute {
		flags |= FlagExecute
	}
	return flags
}

// Access returns the access type the flags permit.
func (f PTEFlags) Access() sv39.AccessType {
	return sv39.AccessType{
		Read:    f&FlagRead != 0,
		Write:   f&FlagWrite != 0,
		Execute: f&FlagExecute != 0,
	}
}

// String implements fmt.Stringer.String.
func (f PTEFlags) String() string {
	names := [8]byte{'V', 'R', 'W', 'X', 'U', 'G', 'A', 'D'}
	s := make([]byte, 0, 8)
	for i, c := range names {
		if f&(1<<i) != 0 {
			s = append(s, c)
		}
	}
	return string(s)
}

// PTE is one page table entry as stored in a table frame: bits [53:10] hold
// the physical page number, bits [7:0] the flag bitset. Bits [63:54] and
// [9:8] are reserved and stored as zero.
type PTE uint64

const (
	pteFlagsMask PTE = 0xff
	ptePPNShift      = 10
	ptePPNMask   PTE = ((1 << 44) - 1) << ptePPNShift
)

// MakePTE assembles an entry from a frame number and flags.
func MakePTE(ppn sv39.PhysPageNum, flags PTEFlags) PTE {
	return PTE(ppn)<<ptePPNShift&ptePPNMask | PTE(flags)
}

// Valid returns true iff the entry is valid.
func (p PTE) Valid() bool {
	return p&PTE(FlagValid) != 0
}

// Leaf returns true iff the entry grants any access, i.e. points to a data
// page rather than a next-level table.
func (p PTE) Leaf() bool {
	return p&PTE(FlagRead|FlagWrite|FlagExecute) != 0
}

// PPN returns the physical page number field.
func (p PTE) PPN() sv39.PhysPageNum {
	return sv39.PhysPageNum((p & ptePPNMask) >> ptePPNShift)
}

// Flags returns the flag bitset.
func (p PTE) Flags() PTEFlags {
	return PTEFlags(p & pteFlagsMask)
}

// String implements fmt.Stringer.String.
func (p PTE) String() string {
	return fmt.Sprintf("PTE{ppn: %d, flags: %s}", p.PPN(), p.Flags())
}
