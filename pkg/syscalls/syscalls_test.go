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

package syscalls_test

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/ktime"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syscalls"
)

// base is a page-aligned user address comfortably inside Sv39.
const base = sv39.Addr(0x10000000)

func testKernel(t *testing.T, console io.Writer) (*kernel.Kernel, *syscalls.Env) {
	t.Helper()
	if console == nil {
		console = io.Discard
	}
	k, err := kernel.New(kernel.Config{
		MemoryPages: 256,
		Clock:       &ktime.ManualClock{},
		Console:     console,
	})
	if err != nil {
		t.Fatalf("kernel.New: %v", err)
	}
	return k, syscalls.NewEnv(k)
}

// run creates a single task around body and drives it to completion.
func run(t *testing.T, k *kernel.Kernel, body func(task *kernel.Task)) {
	t.Helper()
	if _, err := k.NewTask("test", kernel.DefaultPriority, body); err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	k.Run()
}

// mustMmap maps n bytes at addr for reading and writing.
func mustMmap(t *testing.T, env *syscalls.Env, addr sv39.Addr, n uint64) {
	t.Helper()
	if ret := env.Call(abi.SysMmap, uint64(addr), n, 3); ret != 0 {
		t.Fatalf("mmap(%#x, %d): returned %d", addr, n, ret)
	}
}

// poke writes b into the current task's memory at addr.
func poke(t *testing.T, task *kernel.Task, addr sv39.Addr, b []byte) {
	t.Helper()
	if _, err := task.AddressSpace().CopyOut(addr, b); err != nil {
		t.Fatalf("CopyOut(%#x): %v", addr, err)
	}
}

// peek reads n bytes of the current task's memory at addr.
func peek(t *testing.T, task *kernel.Task, addr sv39.Addr, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := task.AddressSpace().CopyIn(addr, b); err != nil {
		t.Fatalf("CopyIn(%#x): %v", addr, err)
	}
	return b
}

func TestExit(t *testing.T) {
	k, env := testKernel(t, nil)
	task, err := k.NewTask("exiting", kernel.DefaultPriority, func(*kernel.Task) {
		env.Call(abi.SysExit, 7)
		t.Errorf("exit returned")
	})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	k.Run()
	if got := task.ExitCode(); got != 7 {
		t.Errorf("exit code: got %d, want 7", got)
	}
}

func TestUnknownSyscall(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(*kernel.Task) {
		if ret := env.Call(abi.Sysno(499)); ret != -int64(unix.ENOSYS) {
			t.Errorf("unknown syscall: got %d, want %d", ret, -int64(unix.ENOSYS))
		}
	})
}

func TestMmapErrnos(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(*kernel.Task) {
		cases := []struct {
			name               string
			addr, length, port uint64
			want               int64
		}{
			{"misaligned", uint64(base) + 1, sv39.PageSize, 3, -int64(unix.EINVAL)},
			{"zero length", uint64(base), 0, 3, -int64(unix.EINVAL)},
			{"no access bits", uint64(base), sv39.PageSize, 0, -int64(unix.EINVAL)},
			{"high bits", uint64(base), sv39.PageSize, 0x10, -int64(unix.EINVAL)},
			{"ok", uint64(base), sv39.PageSize, 3, 0},
			{"overlap", uint64(base), sv39.PageSize, 3, -int64(unix.EEXIST)},
		}
		for _, c := range cases {
			if got := env.Call(abi.SysMmap, c.addr, c.length, c.port); got != c.want {
				t.Errorf("mmap %s: got %d, want %d", c.name, got, c.want)
			}
		}
	})
}

func TestMunmapErrnos(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(*kernel.Task) {
		mustMmap(t, env, base, 2*sv39.PageSize)
		if got := env.Call(abi.SysMunmap, uint64(base), 2*sv39.PageSize); got != 0 {
			t.Errorf("munmap of mapped range: got %d, want 0", got)
		}
		if got := env.Call(abi.SysMunmap, uint64(base), sv39.PageSize); got != -int64(unix.EFAULT) {
			t.Errorf("munmap of unmapped range: got %d, want %d", got, -int64(unix.EFAULT))
		}
	})
}

func TestSetPriority(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(*kernel.Task) {
		if got := env.Call(abi.SysSetPriority, 10); got != 10 {
			t.Errorf("set_priority(10): got %d, want 10", got)
		}
		if got := env.Call(abi.SysSetPriority, 1); got != -int64(unix.EINVAL) {
			t.Errorf("set_priority(1): got %d, want %d", got, -int64(unix.EINVAL))
		}
	})
}

func TestGetTime(t *testing.T) {
	clock := &ktime.ManualClock{}
	k, err := kernel.New(kernel.Config{MemoryPages: 256, Clock: clock, Console: io.Discard})
	if err != nil {
		t.Fatalf("kernel.New: %v", err)
	}
	env := syscalls.NewEnv(k)
	clock.Advance(3_000_250) // 3.000250s

	run(t, k, func(task *kernel.Task) {
		mustMmap(t, env, base, sv39.PageSize)
		if got := env.Call(abi.SysGetTime, uint64(base), 0); got != 0 {
			t.Fatalf("get_time: got %d, want 0", got)
		}
		var tv abi.TimeVal
		tv.UnmarshalBytes(peek(t, task, base, tv.SizeBytes()))
		if tv.Sec != 3 || tv.Usec != 250 {
			t.Errorf("get_time: got %+v, want {Sec:3 Usec:250}", tv)
		}
	})
}

func TestTaskInfoCounters(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(task *kernel.Task) {
		for i := 0; i < 3; i++ {
			env.Call(abi.SysYield)
		}
		mustMmap(t, env, base, sv39.PageSize)
		if got := env.Call(abi.SysTaskInfo, uint64(base)); got != 0 {
			t.Fatalf("task_info: got %d, want 0", got)
		}

		var info abi.TaskInfo
		info.UnmarshalBytes(peek(t, task, base, info.SizeBytes()))
		if got := info.SyscallTimes[abi.SysYield]; got != 3 {
			t.Errorf("yield count: got %d, want 3", got)
		}
		if got := info.SyscallTimes[abi.SysMmap]; got != 1 {
			t.Errorf("mmap count: got %d, want 1", got)
		}
		// The snapshot covers the task_info call itself.
		if got := info.SyscallTimes[abi.SysTaskInfo]; got != 1 {
			t.Errorf("task_info count: got %d, want 1", got)
		}
		if got := kernel.TaskStatus(info.Status); got != kernel.TaskRunning {
			t.Errorf("status: got %v, want %v", got, kernel.TaskRunning)
		}
	})
}

func TestWriteToConsole(t *testing.T) {
	var console bytes.Buffer
	k, env := testKernel(t, &console)
	run(t, k, func(task *kernel.Task) {
		mustMmap(t, env, base, sv39.PageSize)
		msg := []byte("hello from user space\n")
		poke(t, task, base, msg)
		if got := env.Call(abi.SysWrite, 1, uint64(base), uint64(len(msg))); got != int64(len(msg)) {
			t.Errorf("write: got %d, want %d", got, len(msg))
		}
	})
	if got := console.String(); got != "hello from user space\n" {
		t.Errorf("console contents: %q", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(task *kernel.Task) {
		mustMmap(t, env, base, 2*sv39.PageSize)
		pathAddr, dataAddr := base, base+0x100
		poke(t, task, pathAddr, []byte("notes.txt\x00"))

		const rdwr, create = 2, 1 << 9
		fd := env.Call(abi.SysOpenAt, 0, uint64(pathAddr), rdwr|create, 0)
		if fd < 0 {
			t.Fatalf("openat: got %d", fd)
		}

		msg := []byte("persistent bytes")
		poke(t, task, dataAddr, msg)
		if got := env.Call(abi.SysWrite, uint64(fd), uint64(dataAddr), uint64(len(msg))); got != int64(len(msg)) {
			t.Fatalf("write: got %d, want %d", got, len(msg))
		}
		if got := env.Call(abi.SysClose, uint64(fd)); got != 0 {
			t.Fatalf("close: got %d", got)
		}

		// Reopen read-only and read the contents back through a
		// buffer that crosses a page boundary.
		fd = env.Call(abi.SysOpenAt, 0, uint64(pathAddr), 0, 0)
		if fd < 0 {
			t.Fatalf("reopen: got %d", fd)
		}
		readAddr := base + sv39.Addr(sv39.PageSize) - 7
		if got := env.Call(abi.SysRead, uint64(fd), uint64(readAddr), uint64(len(msg))); got != int64(len(msg)) {
			t.Fatalf("read: got %d, want %d", got, len(msg))
		}
		if got := peek(t, task, readAddr, len(msg)); !bytes.Equal(got, msg) {
			t.Errorf("read back: got %q, want %q", got, msg)
		}

		// Descriptor lacks write access now.
		if got := env.Call(abi.SysWrite, uint64(fd), uint64(dataAddr), 1); got != -int64(unix.EBADF) {
			t.Errorf("write to read-only fd: got %d, want %d", got, -int64(unix.EBADF))
		}
	})
}

func TestFstatAndLinks(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(task *kernel.Task) {
		mustMmap(t, env, base, sv39.PageSize)
		oldAddr, newAddr, statAddr := base, base+0x40, base+0x80
		poke(t, task, oldAddr, []byte("orig\x00"))
		poke(t, task, newAddr, []byte("alias\x00"))

		const create = 1 << 9
		fd := env.Call(abi.SysOpenAt, 0, uint64(oldAddr), create, 0)
		if fd < 0 {
			t.Fatalf("openat: got %d", fd)
		}

		if got := env.Call(abi.SysLinkAt, 0, uint64(oldAddr), 0, uint64(newAddr), 0); got != 0 {
			t.Fatalf("linkat: got %d", got)
		}
		if got := env.Call(abi.SysFstat, uint64(fd), uint64(statAddr)); got != 0 {
			t.Fatalf("fstat: got %d", got)
		}
		var st abi.Stat
		st.UnmarshalBytes(peek(t, task, statAddr, st.SizeBytes()))
		if st.Nlink != 2 {
			t.Errorf("Nlink after link: got %d, want 2", st.Nlink)
		}
		if st.Mode != abi.ModeFile {
			t.Errorf("Mode: got %#o, want %#o", st.Mode, abi.ModeFile)
		}

		if got := env.Call(abi.SysUnlinkAt, 0, uint64(newAddr), 0); got != 0 {
			t.Fatalf("unlinkat: got %d", got)
		}
		if got := env.Call(abi.SysUnlinkAt, 0, uint64(newAddr), 0); got != -int64(unix.ENOENT) {
			t.Errorf("double unlink: got %d, want %d", got, -int64(unix.ENOENT))
		}
	})
}

func TestBadDescriptors(t *testing.T) {
	k, env := testKernel(t, nil)
	run(t, k, func(task *kernel.Task) {
		mustMmap(t, env, base, sv39.PageSize)
		for _, fd := range []uint64{3, 100} {
			if got := env.Call(abi.SysRead, fd, uint64(base), 1); got != -int64(unix.EBADF) {
				t.Errorf("read from fd %d: got %d, want %d", fd, got, -int64(unix.EBADF))
			}
		}
		// Reading into unmapped memory faults.
		if got := env.Call(abi.SysWrite, 1, uint64(base)+2*sv39.PageSize, 4); got != -int64(unix.EFAULT) {
			t.Errorf("write from unmapped buffer: got %d, want %d", got, -int64(unix.EFAULT))
		}
	})
}
