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

package syscalls

import (
	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

// sysExit terminates the current task. It never returns.
func sysExit(t *kernel.Task, args Arguments) int64 {
	t.Kernel().Processor().Exit(int64(args[0]))
	panic("unreachable")
}

// sysYield puts the current task back in the ready set and runs the
// scheduler.
func sysYield(t *kernel.Task, args Arguments) int64 {
	t.Kernel().Processor().Yield()
	return 0
}

// sysSetPriority sets the stride priority. Returns the new priority;
// values below the ABI floor of 2 fail.
func sysSetPriority(t *kernel.Task, args Arguments) int64 {
	prio := args[0]
	if err := t.SetPriority(prio); err != nil {
		return syserror.Sentinel(err)
	}
	return int64(prio)
}

// sysGetTime writes the current time as a TimeVal to args[0].
func sysGetTime(t *kernel.Task, args Arguments) int64 {
	us := t.Kernel().Clock.NowMicroseconds()
	tv := abi.TimeVal{
		Sec:  us / 1e6,
		Usec: us % 1e6,
	}
	buf := make([]byte, tv.SizeBytes())
	tv.MarshalBytes(buf)
	if _, err := t.AddressSpace().CopyOut(sv39.Addr(args[0]), buf); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}

// sysTaskInfo writes the current task's accounting record to args[0]. The
// record includes this very call.
func sysTaskInfo(t *kernel.Task, args Arguments) int64 {
	info := t.Kernel().Processor().TaskInfo()
	buf := make([]byte, info.SizeBytes())
	info.MarshalBytes(buf)
	if _, err := t.AddressSpace().CopyOut(sv39.Addr(args[0]), buf); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}
