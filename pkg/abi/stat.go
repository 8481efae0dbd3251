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

package abi

import (
	"encoding/binary"
)

// StatMode is the file-kind field of Stat.
type StatMode uint32

const (
	// ModeDir marks a directory.
	ModeDir StatMode = 0o040000

	// ModeFile marks a regular file.
	ModeFile StatMode = 0o100000
)

// Stat is the sys_fstat result record: 80 bytes, little-endian, with a
// 7-word tail of padding.
type Stat struct {
	Dev   uint64
	Ino   uint64
	Mode  StatMode
	Nlink uint32
}

// SizeBytes returns the encoded size of Stat.
func (*Stat) SizeBytes() int {
	return 8 + 8 + 4 + 4 + 7*8
}

// MarshalBytes encodes s into dst, which must hold SizeBytes bytes.
func (s *Stat) MarshalBytes(dst []byte) {
	binary.LittleEndian.PutUint64(dst[0:], s.Dev)
	binary.LittleEndian.PutUint64(dst[8:], s.Ino)
	binary.LittleEndian.PutUint32(dst[16:], uint32(s.Mode))
	binary.LittleEndian.PutUint32(dst[20:], s.Nlink)
	for i := 0; i < 7; i++ {
		binary.LittleEndian.PutUint64(dst[24+8*i:], 0)
	}
}

// UnmarshalBytes decodes s from src, which must hold SizeBytes bytes.
func (s *Stat) UnmarshalBytes(src []byte) {
	s.Dev = binary.LittleEndian.Uint64(src[0:])
	s.Ino = binary.LittleEndian.Uint64(src[8:])
	s.Mode = StatMode(binary.LittleEndian.Uint32(src[16:]))
	s.Nlink = binary.LittleEndian.Uint32(src[20:])
}
