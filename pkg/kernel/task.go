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

package kernel

import (
	"fmt"

	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/kfs"
	"github.com/picokern/picokern/pkg/sync"
	"github.com/picokern/picokern/pkg/syserror"
)

// TaskStatus is a task's lifecycle state. The lifecycle is linear; the only
// backward transition is Running to Ready on a voluntary yield.
type TaskStatus int

const (
	// TaskUninitialized is the state before the task is first queued.
	TaskUninitialized TaskStatus = iota

	// TaskReady means the task is in the ready set, eligible to run.
	TaskReady

	// TaskRunning means the task is the processor's current task.
	TaskRunning

	// TaskExited means the task has exited and will never run again.
	TaskExited
)

func (s TaskStatus) String() string {
	switch s {
	case TaskUninitialized:
		return "Uninitialized"
	case TaskReady:
		return "Ready"
	case TaskRunning:
		return "Running"
	case TaskExited:
		return "Exited"
	default:
		return fmt.Sprintf("Invalid status: %d", int(s))
	}
}

// DefaultPriority is the scheduling priority of a new task.
const DefaultPriority = 16

// MinPriority is the lowest priority accepted from a task. The scheduler's
// own invariant is merely priority >= 1 (the stride divisor); the ABI floor
// of 2 keeps a task from monopolizing the core.
const MinPriority = 2

// Task is a task control block.
type Task struct {
	// id is the task ID, unique for the kernel's lifetime.
	id uint64

	// name identifies the task in logs.
	name string

	// k is the owning kernel.
	k *Kernel

	// ctx is the task's saved execution context.
	ctx *TaskContext

	// mu guards the mutable state below. It must never be held across a
	// context transfer.
	mu sync.CheckedMutex

	status   TaskStatus
	stride   uint64
	priority uint64
	exitCode int64

	// startMs is the clock reading at first scheduling; started records
	// whether startMs is meaningful.
	startMs uint64
	started bool

	// info is the accounting record reported by sys_task_info.
	info accounting

	// as is the task's address space, nil after exit.
	as *AddressSpace

	// fds is the file descriptor table: 0 stdin, 1 stdout, 2 stderr.
	fds []kfs.File
}

// accounting mirrors the abi.TaskInfo record.
type accounting struct {
	status       TaskStatus
	syscallTimes [abi.MaxSyscallNum]uint32
	timeMs       uint64
}

// ID returns the task ID.
func (t *Task) ID() uint64 {
	return t.id
}

// Name returns the task's name.
func (t *Task) Name() string {
	return t.name
}

// Kernel returns the owning kernel.
func (t *Task) Kernel() *Kernel {
	return t.k
}

// Status returns the task's current lifecycle state.
func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// ExitCode returns the task's exit code; meaningful only once Exited.
func (t *Task) ExitCode() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exitCode
}

// AddressSpace returns the task's address space, nil after exit.
func (t *Task) AddressSpace() *AddressSpace {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.as
}

// SetPriority sets the scheduling priority. Priorities below MinPriority
// are rejected.
func (t *Task) SetPriority(priority uint64) error {
	if priority < MinPriority {
		return syserror.ErrInvalidArgument
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.priority = priority
	return nil
}

// Stride implements sched.Runnable.Stride.
func (t *Task) Stride() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stride
}

// AddStride implements sched.Runnable.AddStride. The accumulator saturates
// instead of wrapping, preserving selection order under sustained
// scheduling.
func (t *Task) AddStride(delta uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stride+delta < t.stride {
		t.stride = ^uint64(0)
		return
	}
	t.stride += delta
}

// Priority implements sched.Runnable.Priority.
func (t *Task) Priority() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.priority
}

// File returns the open file at fd.
func (t *Task) File(fd int) (kfs.File, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < 0 || fd >= len(t.fds) || t.fds[fd] == nil {
		return nil, syserror.ErrBadFD
	}
	return t.fds[fd], nil
}

// AddFile installs f at the lowest free descriptor and returns it.
func (t *Task) AddFile(f kfs.File) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for fd, old := range t.fds {
		if old == nil {
			t.fds[fd] = f
			return fd
		}
	}
	t.fds = append(t.fds, f)
	return len(t.fds) - 1
}

// RemoveFile closes descriptor fd.
func (t *Task) RemoveFile(fd int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < 0 || fd >= len(t.fds) || t.fds[fd] == nil {
		return syserror.ErrBadFD
	}
	t.fds[fd] = nil
	return nil
}
