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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/picokern/picokern/pkg/memory"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

func testTables(t *testing.T, npages uint64) (*memory.Physical, *memory.FrameAllocator, *PageTables) {
	t.Helper()
	mem := memory.NewPhysical(npages)
	alloc := memory.NewFrameAllocator(mem)
	pt, err := New(mem, alloc)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return mem, alloc, pt
}

type mapping struct {
	vpn   sv39.VirtPageNum
	ppn   sv39.PhysPageNum
	flags PTEFlags
}

func checkMappings(t *testing.T, pt *PageTables, want []mapping) {
	t.Helper()
	var found []mapping
	pt.iterate(func(vpn sv39.VirtPageNum, pte PTE) {
		found = append(found, mapping{vpn, pte.PPN(), pte.Flags()})
	})
	if diff := cmp.Diff(want, found, cmp.AllowUnexported(mapping{})); diff != "" {
		t.Errorf("mappings mismatch (-want +got):\n%s", diff)
	}
}

func TestMapTranslate(t *testing.T) {
	_, _, pt := testTables(t, 16)

	flags := FlagRead | FlagWrite | FlagUser
	if err := pt.Map(42, 7, flags); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	pte, err := pt.Translate(42)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if pte.PPN() != 7 {
		t.Errorf("PPN: got %d, want 7", pte.PPN())
	}
	if got := pte.Flags(); got != flags|FlagValid {
		t.Errorf("flags: got %s, want %s", got, flags|FlagValid)
	}
}

func TestRemapFails(t *testing.T) {
	_, _, pt := testTables(t, 16)

	if err := pt.Map(42, 7, FlagRead); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if err := pt.Map(42, 9, FlagWrite); err != syserror.ErrAlreadyMapped {
		t.Fatalf("remap: got err %v, want ErrAlreadyMapped", err)
	}
	// The original mapping must be intact.
	checkMappings(t, pt, []mapping{
		{42, 7, FlagValid | FlagRead},
	})
}

func TestUnmap(t *testing.T) {
	_, _, pt := testTables(t, 16)

	if err := pt.Map(42, 7, FlagRead); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if err := pt.Unmap(42); err != nil {
		t.Fatalf("Unmap failed: %v", err)
	}
	if _, err := pt.Translate(42); err != syserror.ErrNotMapped {
		t.Fatalf("Translate after Unmap: got err %v, want ErrNotMapped", err)
	}
	if err := pt.Unmap(42); err != syserror.ErrNotMapped {
		t.Fatalf("double Unmap: got err %v, want ErrNotMapped", err)
	}
	checkMappings(t, pt, nil)
}

func TestSparseEntries(t *testing.T) {
	_, _, pt := testTables(t, 32)

	// Two mappings in different top-level directories.
	low := sv39.VirtPageNum(3)
	high := sv39.Addr(sv39.MaxVA - sv39.PageSize).Floor()
	if err := pt.Map(low, 5, FlagRead|FlagWrite); err != nil {
		t.Fatalf("Map low failed: %v", err)
	}
	if err := pt.Map(high, 6, FlagRead); err != nil {
		t.Fatalf("Map high failed: %v", err)
	}
	checkMappings(t, pt, []mapping{
		{low, 5, FlagValid | FlagRead | FlagWrite},
		{high, 6, FlagValid | FlagRead},
	})
}

func TestTranslateAbsentIntermediate(t *testing.T) {
	_, _, pt := testTables(t, 16)
	if _, err := pt.Translate(42); err != syserror.ErrNotMapped {
		t.Fatalf("Translate on empty tree: got err %v, want ErrNotMapped", err)
	}
}

func TestTokenView(t *testing.T) {
	mem, alloc, pt := testTables(t, 16)

	if err := pt.Map(42, 7, FlagRead|FlagUser); err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	token := pt.Token()
	if mode := token >> 60; mode != 8 {
		t.Errorf("token mode: got %d, want 8 (Sv39)", mode)
	}

	view := NewFromToken(mem, alloc, token)
	pte, err := view.Translate(42)
	if err != nil {
		t.Fatalf("view Translate failed: %v", err)
	}
	if pte.PPN() != 7 {
		t.Errorf("view PPN: got %d, want 7", pte.PPN())
	}

	// A view owns nothing and must refuse Release.
	defer func() {
		if recover() == nil {
			t.Errorf("Release on view did not panic")
		}
	}()
	view.Release()
}

func TestDirectoryGrowthFailure(t *testing.T) {
	// Room for the root only: the first Map cannot build its two
	// directory levels.
	_, _, pt := testTables(t, 2)
	if err := pt.Map(42, 1, FlagRead); err != syserror.ErrNoFrame {
		t.Fatalf("Map without frames: got err %v, want ErrNoFrame", err)
	}
}

func TestReleaseReturnsDirectoryFrames(t *testing.T) {
	_, alloc, pt := testTables(t, 16)
	if err := pt.Map(42, 7, FlagRead); err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	before := alloc.Free()
	pt.Release()
	// Root plus two directory levels come back; the data frame (7) was
	// never ours to free.
	if got := alloc.Free(); got != before+3 {
		t.Errorf("Free after Release: got %d, want %d", got, before+3)
	}
}
