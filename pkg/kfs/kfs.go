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

// Package kfs implements the kernel's file layer: the File interface that
// descriptor tables hold, console files, and a flat in-memory registry of
// named files with hard links.
package kfs

import (
	"github.com/picokern/picokern/pkg/abi"
)

// UserBuffer is a user-space byte range after translation: an ordered list
// of physical page slices that together cover the range. The slices alias
// physical memory, so reads and writes through them are reads and writes
// of user memory.
type UserBuffer [][]byte

// Len returns the total byte length of the buffer.
func (ub UserBuffer) Len() int {
	n := 0
	for _, b := range ub {
		n += len(b)
	}
	return n
}

// CopyOut copies src into the buffer and returns the number of bytes
// copied, stopping at whichever of src or the buffer ends first.
func (ub UserBuffer) CopyOut(src []byte) int {
	done := 0
	for _, b := range ub {
		if done >= len(src) {
			break
		}
		done += copy(b, src[done:])
	}
	return done
}

// CopyIn copies the buffer into dst and returns the number of bytes
// copied, stopping at whichever of dst or the buffer ends first.
func (ub UserBuffer) CopyIn(dst []byte) int {
	done := 0
	for _, b := range ub {
		if done >= len(dst) {
			break
		}
		done += copy(dst[done:], b)
	}
	return done
}

// File is an open file as seen by a descriptor table.
type File interface {
	// Readable returns whether Read is permitted.
	Readable() bool

	// Writable returns whether Write is permitted.
	Writable() bool

	// Read fills buf from the file and returns the number of bytes
	// read. Zero with a nil error means end of file.
	Read(buf UserBuffer) (int, error)

	// Write consumes buf into the file and returns the number of bytes
	// written.
	Write(buf UserBuffer) (int, error)

	// Stat returns the file's metadata record.
	Stat() (abi.Stat, error)
}
