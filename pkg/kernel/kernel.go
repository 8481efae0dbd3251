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

// Package kernel implements the core of a cooperative single-core kernel:
// task control blocks, per-task address spaces, and the processor that
// stride-schedules between them.
package kernel

import (
	"fmt"
	"io"
	"os"

	"github.com/picokern/picokern/pkg/kfs"
	"github.com/picokern/picokern/pkg/ktime"
	"github.com/picokern/picokern/pkg/log"
	"github.com/picokern/picokern/pkg/memory"
	"github.com/picokern/picokern/pkg/sync"
)

// Config configures a Kernel.
type Config struct {
	// MemoryPages is the number of 4 KiB pages of physical memory.
	MemoryPages uint64

	// Clock supplies time for accounting and sys_get_time. Defaults to
	// the real clock.
	Clock ktime.Clock

	// Console receives task stdout/stderr writes. Defaults to the
	// process's stdout.
	Console io.Writer
}

// Kernel ties together physical memory, the filesystem registry, and the
// processor.
type Kernel struct {
	// Mem is the simulated physical memory.
	Mem *memory.Physical

	// Alloc hands out frames from Mem.
	Alloc *memory.FrameAllocator

	// Clock supplies kernel time.
	Clock ktime.Clock

	// Registry is the flat filesystem namespace.
	Registry *kfs.Registry

	manager *TaskManager
	proc    *Processor
	console io.Writer

	mu     sync.CheckedMutex
	nextID uint64
	live   int
}

// New creates a kernel with cfg.
func New(cfg Config) (*Kernel, error) {
	if cfg.MemoryPages < 2 {
		return nil, fmt.Errorf("invalid memory size: %d pages", cfg.MemoryPages)
	}
	mem := memory.NewPhysical(cfg.MemoryPages)
	clock := cfg.Clock
	if clock == nil {
		clock = ktime.NewRealClock()
	}
	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}
	k := &Kernel{
		Mem:      mem,
		Alloc:    memory.NewFrameAllocator(mem),
		Clock:    clock,
		Registry: kfs.NewRegistry(),
		manager:  NewTaskManager(),
		console:  console,
		mu:       sync.NewCheckedMutex("kernel"),
		nextID:   1,
	}
	k.proc = &Processor{k: k, idle: newIdleContext()}
	return k, nil
}

// Processor returns the kernel's single core.
func (k *Kernel) Processor() *Processor {
	return k.proc
}

// NewTask creates a task that runs body when first scheduled and queues it
// ready. body receives its own Task; if it returns, the task exits with
// code 0. Descriptors 0, 1 and 2 are pre-opened to the console.
func (k *Kernel) NewTask(name string, priority uint64, body func(*Task)) (*Task, error) {
	if priority < 1 {
		return nil, fmt.Errorf("invalid priority %d for task %q", priority, name)
	}
	as, err := NewAddressSpace(k.Mem, k.Alloc)
	if err != nil {
		return nil, fmt.Errorf("creating address space for task %q: %w", name, err)
	}

	k.mu.Lock()
	id := k.nextID
	k.nextID++
	k.live++
	k.mu.Unlock()

	t := &Task{
		id:       id,
		name:     name,
		k:        k,
		mu:       sync.NewCheckedMutex(fmt.Sprintf("task %d", id)),
		priority: priority,
		as:       as,
		fds: []kfs.File{
			kfs.NewStdin(),
			kfs.NewStdout(k.console),
			kfs.NewStdout(k.console),
		},
	}
	t.ctx = newTaskContext(func() {
		body(t)
		k.proc.Exit(0)
	})

	log.Debugf("created task %d (%s), priority %d", id, name, priority)
	k.manager.Add(t)
	return t, nil
}

// Run drives the processor until every task has exited. It must be called
// at most once, from the flow that created the kernel.
func (k *Kernel) Run() {
	log.Infof("scheduler starting with %d tasks", k.manager.Len())
	k.proc.Run()
	log.Infof("scheduler idle, no ready tasks")
}

// liveTasks returns the number of tasks that have not exited.
func (k *Kernel) liveTasks() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.live
}

// taskExited records one task leaving the live set.
func (k *Kernel) taskExited() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.live--
}
