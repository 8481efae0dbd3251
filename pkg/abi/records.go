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

// TimeVal is the record written by sys_get_time.
type TimeVal struct {
	Sec  uint64
	Usec uint64
}

// SizeBytes returns the wire size of the record.
func (*TimeVal) SizeBytes() int {
	return 16
}

// MarshalBytes serializes the record into dst.
func (tv *TimeVal) MarshalBytes(dst []byte) {
	binary.LittleEndian.PutUint64(dst[0:], tv.Sec)
	binary.LittleEndian.PutUint64(dst[8:], tv.Usec)
}

// UnmarshalBytes deserializes the record from src.
func (tv *TimeVal) UnmarshalBytes(src []byte) {
	tv.Sec = binary.LittleEndian.Uint64(src[0:])
	tv.Usec = binary.LittleEndian.Uint64(src[8:])
}

// TaskInfo is the record written by sys_task_info: the task's last observed
// status, its per-syscall invocation counters and its wall time since first
// scheduling, in milliseconds.
type TaskInfo struct {
	Status       uint64
	SyscallTimes [MaxSyscallNum]uint32
	TimeMs       uint64
}

// SizeBytes returns the wire size of the record.
func (*TaskInfo) SizeBytes() int {
	return 8 + 4*MaxSyscallNum + 8
}

// MarshalBytes serializes the record into dst.
func (ti *TaskInfo) MarshalBytes(dst []byte) {
	binary.LittleEndian.PutUint64(dst[0:], ti.Status)
	for i, n := range ti.SyscallTimes {
		binary.LittleEndian.PutUint32(dst[8+4*i:], n)
	}
	binary.LittleEndian.PutUint64(dst[8+4*MaxSyscallNum:], ti.TimeMs)
}

// UnmarshalBytes deserializes the record from src.
func (ti *TaskInfo) UnmarshalBytes(src []byte) {
	ti.Status = binary.LittleEndian.Uint64(src[0:])
	for i := range ti.SyscallTimes {
		ti.SyscallTimes[i] = binary.LittleEndian.Uint32(src[8+4*i:])
	}
	ti.TimeMs = binary.LittleEndian.Uint64(src[8+4*MaxSyscallNum:])
}
