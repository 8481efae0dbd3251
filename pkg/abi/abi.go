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

// Package abi describes the syscall ABI: call numbers and the wire layout
// of records the kernel writes into user memory. All records are
// little-endian, matching the simulated hardware.
package abi

// Sysno is a syscall number.
type Sysno uint64

// Syscall numbers, following the riscv64 Linux numbering where one exists.
const (
	SysUnlinkAt    Sysno = 35
	SysLinkAt      Sysno = 37
	SysOpenAt      Sysno = 56
	SysClose       Sysno = 57
	SysRead        Sysno = 63
	SysWrite       Sysno = 64
	SysFstat       Sysno = 80
	SysExit        Sysno = 93
	SysYield       Sysno = 124
	SysSetPriority Sysno = 140
	SysGetTime     Sysno = 169
	SysSbrk        Sysno = 214
	SysMunmap      Sysno = 215
	SysMmap        Sysno = 222
	SysTaskInfo    Sysno = 410
)

// MaxSyscallNum bounds the per-syscall counter table in TaskInfo.
const MaxSyscallNum = 500
