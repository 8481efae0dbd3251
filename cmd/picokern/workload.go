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

package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syscalls"
)

// userBase is where workload tasks map their scratch memory.
const userBase = sv39.Addr(0x10000000)

// Workload is a TOML run description: machine shape plus a task list.
type Workload struct {
	// MemoryPages is the physical memory size in pages.
	MemoryPages uint64 `toml:"memory-pages"`

	// Tasks are started together and scheduled by stride.
	Tasks []TaskSpec `toml:"task"`
}

// TaskSpec describes one task of a workload.
type TaskSpec struct {
	// Name identifies the task in logs and output.
	Name string `toml:"name"`

	// Priority is the stride priority; 0 means the default.
	Priority uint64 `toml:"priority"`

	// Kind selects the task body: "console", "file" or "mmap".
	Kind string `toml:"kind"`

	// Message is the payload written by console and file tasks.
	Message string `toml:"message"`

	// Repeat is the iteration count; 0 means once.
	Repeat int `toml:"repeat"`

	// Pages is how many pages an mmap task maps per iteration.
	Pages uint64 `toml:"pages"`
}

// LoadWorkload reads and validates a TOML workload file.
func LoadWorkload(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w Workload
	if err := toml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if w.MemoryPages == 0 {
		w.MemoryPages = 1024
	}
	if len(w.Tasks) == 0 {
		return nil, fmt.Errorf("%s: no tasks defined", path)
	}
	for i := range w.Tasks {
		ts := &w.Tasks[i]
		if ts.Name == "" {
			ts.Name = fmt.Sprintf("task%d", i)
		}
		if ts.Priority == 0 {
			ts.Priority = kernel.DefaultPriority
		}
		if ts.Repeat <= 0 {
			ts.Repeat = 1
		}
		if ts.Pages == 0 {
			ts.Pages = 1
		}
		switch ts.Kind {
		case "console", "file", "mmap":
		default:
			return nil, fmt.Errorf("task %q: unknown kind %q", ts.Name, ts.Kind)
		}
	}
	return &w, nil
}

// Start creates the workload's tasks in k, dispatching syscalls through
// env. Task bodies use only the syscall surface, the way real user code
// would.
func (w *Workload) Start(k *kernel.Kernel, env *syscalls.Env) ([]*kernel.Task, error) {
	var tasks []*kernel.Task
	for i := range w.Tasks {
		ts := w.Tasks[i]
		var body func(*kernel.Task)
		switch ts.Kind {
		case "console":
			body = consoleBody(env, ts)
		case "file":
			body = fileBody(env, ts)
		case "mmap":
			body = mmapBody(env, ts)
		}
		task, err := k.NewTask(ts.Name, ts.Priority, body)
		if err != nil {
			return nil, fmt.Errorf("creating task %q: %w", ts.Name, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// setup maps one page of scratch memory and returns its address, exiting
// the task on failure.
func setup(env *syscalls.Env, pages uint64) sv39.Addr {
	if ret := env.Call(abi.SysMmap, uint64(userBase), pages*sv39.PageSize, 3); ret != 0 {
		env.Call(abi.SysExit, uint64(ret))
	}
	return userBase
}

// consoleBody writes the task's message to stdout Repeat times, yielding
// between writes.
func consoleBody(env *syscalls.Env, ts TaskSpec) func(*kernel.Task) {
	return func(t *kernel.Task) {
		buf := setup(env, 1)
		msg := []byte(ts.Message + "\n")
		t.AddressSpace().CopyOut(buf, msg)
		for i := 0; i < ts.Repeat; i++ {
			if ret := env.Call(abi.SysWrite, 1, uint64(buf), uint64(len(msg))); ret < 0 {
				env.Call(abi.SysExit, uint64(ret))
			}
			env.Call(abi.SysYield)
		}
		env.Call(abi.SysExit, 0)
	}
}

// fileBody writes the message to a file named after the task, links it,
// reads it back through the link, and verifies the contents.
func fileBody(env *syscalls.Env, ts TaskSpec) func(*kernel.Task) {
	return func(t *kernel.Task) {
		buf := setup(env, 2)
		pathAddr, linkAddr, dataAddr := buf, buf+0x100, buf+0x200
		t.AddressSpace().CopyOut(pathAddr, []byte(ts.Name+".dat\x00"))
		t.AddressSpace().CopyOut(linkAddr, []byte(ts.Name+".lnk\x00"))
		msg := []byte(ts.Message)
		t.AddressSpace().CopyOut(dataAddr, msg)

		const rdwr, create = 2, 1 << 9
		fd := env.Call(abi.SysOpenAt, 0, uint64(pathAddr), rdwr|create, 0)
		if fd < 0 {
			env.Call(abi.SysExit, uint64(fd))
		}
		env.Call(abi.SysWrite, uint64(fd), uint64(dataAddr), uint64(len(msg)))
		env.Call(abi.SysClose, uint64(fd))
		env.Call(abi.SysLinkAt, 0, uint64(pathAddr), 0, uint64(linkAddr), 0)

		env.Call(abi.SysYield)

		fd = env.Call(abi.SysOpenAt, 0, uint64(linkAddr), 0, 0)
		if fd < 0 {
			env.Call(abi.SysExit, uint64(fd))
		}
		readAddr := buf + sv39.Addr(sv39.PageSize)
		n := env.Call(abi.SysRead, uint64(fd), uint64(readAddr), uint64(len(msg)))
		if n != int64(len(msg)) {
			env.Call(abi.SysExit, 1)
		}
		env.Call(abi.SysClose, uint64(fd))
		env.Call(abi.SysUnlinkAt, 0, uint64(linkAddr), 0)
		env.Call(abi.SysExit, 0)
	}
}

// mmapBody repeatedly maps, touches and unmaps a fresh range.
func mmapBody(env *syscalls.Env, ts TaskSpec) func(*kernel.Task) {
	return func(t *kernel.Task) {
		length := ts.Pages * sv39.PageSize
		for i := 0; i < ts.Repeat; i++ {
			if ret := env.Call(abi.SysMmap, uint64(userBase), length, 3); ret != 0 {
				env.Call(abi.SysExit, uint64(ret))
			}
			t.AddressSpace().CopyOut(userBase, []byte{0xa5})
			if ret := env.Call(abi.SysMunmap, uint64(userBase), length); ret != 0 {
				env.Call(abi.SysExit, uint64(ret))
			}
			env.Call(abi.SysYield)
		}
		env.Call(abi.SysExit, 0)
	}
}
