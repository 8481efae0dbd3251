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

// Package usermem governs access to user memory: it resolves virtual byte
// ranges through a page table into physical slices and installs or removes
// whole-page mapping ranges.
package usermem

import (
	"github.com/picokern/picokern/pkg/memory"
	"github.com/picokern/picokern/pkg/pagetables"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

// TranslateRange resolves [addr, addr+length) into an ordered sequence of
// physical byte slices, split at page boundaries. Each slice is the maximal
// run within its page. It fails with ErrNotMapped if any page in the range
// is unmapped, and never allocates.
func TranslateRange(pt *pagetables.PageTables, addr sv39.Addr, length uint64) ([][]byte, error) {
	end, ok := addr.AddLength(length)
	if !ok {
		return nil, syserror.ErrInvalidArgument
	}
	mem := pt.Memory()
	var views [][]byte
	for start := addr; start < end; {
		vpn := start.Floor()
		pte, err := pt.Translate(vpn)
		if err != nil {
			return nil, err
		}
		segEnd := vpn.Addr() + sv39.PageSize
		if end < segEnd {
			segEnd = end
		}
		off := start.PageOffset()
		views = append(views, mem.PageBytes(pte.PPN())[off:off+uint64(segEnd-start)])
		start = segEnd
	}
	return views, nil
}

// CopyOut copies src into user memory at addr. It returns the number of
// bytes copied, which is len(src) unless translation fails.
func CopyOut(pt *pagetables.PageTables, addr sv39.Addr, src []byte) (int, error) {
	views, err := TranslateRange(pt, addr, uint64(len(src)))
	if err != nil {
		return 0, err
	}
	done := 0
	for _, v := range views {
		done += copy(v, src[done:])
	}
	return done, nil
}

// CopyIn copies len(dst) bytes of user memory at addr into dst.
func CopyIn(pt *pagetables.PageTables, addr sv39.Addr, dst []byte) (int, error) {
	views, err := TranslateRange(pt, addr, uint64(len(dst)))
	if err != nil {
		return 0, err
	}
	done := 0
	for _, v := range views {
		done += copy(dst[done:], v)
	}
	return done, nil
}

// MapRange maps every page of [start, start+length) to a fresh frame with
// the given access plus the User bit. start must be page-aligned and length
// positive; the final partial page is mapped whole. On any failure the
// pages installed by this call are unmapped and their frames released, so a
// failed MapRange leaves the table as it found it.
//
// The returned trackers own the data frames, in page order; the caller's
// address space keeps them for the lifetime of the mapping.
func MapRange(pt *pagetables.PageTables, alloc *memory.FrameAllocator, start sv39.Addr, length uint64, at sv39.AccessType) ([]*memory.FrameTracker, error) {
	vpns, err := rangePages(start, length)
	if err != nil {
		return nil, err
	}
	flags := pagetables.FlagsFromAccess(at) | pagetables.FlagUser
	var frames []*memory.FrameTracker
	undo := func() {
		for i, f := range frames {
			pt.Unmap(vpns[i])
			f.Release()
		}
	}
	for _, vpn := range vpns {
		frame, err := alloc.Alloc()
		if err != nil {
			undo()
			return nil, err
		}
		if err := pt.Map(vpn, frame.PPN(), flags); err != nil {
			frame.Release()
			undo()
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// UnmapRange unmaps every page of [start, start+length). start must be
// page-aligned and length positive. The first unmapped page aborts the
// operation with ErrNotMapped; data frames are not reclaimed here, their
// owner releases them.
func UnmapRange(pt *pagetables.PageTables, start sv39.Addr, length uint64) error {
	vpns, err := rangePages(start, length)
	if err != nil {
		return err
	}
	for _, vpn := range vpns {
		if err := pt.Unmap(vpn); err != nil {
			return err
		}
	}
	return nil
}

// rangePages validates a whole-page range request and returns its pages.
func rangePages(start sv39.Addr, length uint64) ([]sv39.VirtPageNum, error) {
	if !start.PageAligned() || length == 0 {
		return nil, syserror.ErrInvalidArgument
	}
	end, ok := start.AddLength(length)
	if !ok {
		return nil, syserror.ErrInvalidArgument
	}
	end, ok = end.RoundUp()
	if !ok || end > sv39.MaxVA {
		return nil, syserror.ErrInvalidArgument
	}
	vpns := make([]sv39.VirtPageNum, 0, (end-start)/sv39.PageSize)
	for vpn := start.Floor(); vpn < end.Floor(); vpn++ {
		vpns = append(vpns, vpn)
	}
	return vpns, nil
}
