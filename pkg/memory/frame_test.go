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
	"testing"

	"github.com/picokern/picokern/pkg/syserror"
)

func TestAllocExhaustion(t *testing.T) {
	mem := NewPhysical(4) // frame 0 reserved, 3 usable
	a := NewFrameAllocator(mem)

	var frames []*FrameTracker
	for i := 0; i < 3; i++ {
		f, err := a.Alloc()
		if err != nil {
			t.Fatalf("Alloc %d failed: %v", i, err)
		}
		frames = append(frames, f)
	}
	if _, err := a.Alloc(); err != syserror.ErrNoFrame {
		t.Fatalf("Alloc on empty pool: got err %v, want ErrNoFrame", err)
	}

	frames[1].Release()
	if got := a.Free(); got != 1 {
		t.Errorf("Free after release: got %d, want 1", got)
	}
	f, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc after release failed: %v", err)
	}
	if f.PPN() != frames[1].PPN() {
		t.Errorf("recycled Alloc: got PPN %d, want %d", f.PPN(), frames[1].PPN())
	}
}

func TestAllocZeroes(t *testing.T) {
	mem := NewPhysical(4)
	a := NewFrameAllocator(mem)

	f, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	copy(mem.PageBytes(f.PPN()), "dirty data")
	ppn := f.PPN()
	f.Release()

	g, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if g.PPN() != ppn {
		t.Fatalf("expected frame %d to be recycled, got %d", ppn, g.PPN())
	}
	for i, b := range mem.PageBytes(g.PPN()) {
		if b != 0 {
			t.Fatalf("byte %d of recycled frame not zeroed", i)
		}
	}
}

func TestDoubleReleasePanics(t *testing.T) {
	mem := NewPhysical(4)
	a := NewFrameAllocator(mem)
	f, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	f.Release()
	defer func() {
		if recover() == nil {
			t.Errorf("double Release did not panic")
		}
	}()
	f.Release()
}
