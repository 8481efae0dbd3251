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
	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/log"
	"github.com/picokern/picokern/pkg/sv39"
)

// Processor is the single core. It alternates between the idle flow, which
// picks the next task, and the current task's flow. current is only read
// and written by whichever flow the processor is in, so the channel
// handoff in transfer is the only synchronization it needs.
type Processor struct {
	k *Kernel

	// idle is the context of the flow running Run.
	idle *TaskContext

	// current is the running task, nil while idle.
	current *Task
}

// Current returns the running task. It must only be called from the
// current task's flow (typically a syscall handler).
func (p *Processor) Current() *Task {
	if p.current == nil {
		panic("kernel: Current called with no running task")
	}
	return p.current
}

// Run is the idle loop: fetch the next ready task, run it until it yields
// or exits, repeat. It returns once every task has exited. Run must be
// called from the flow that owns p.idle.
func (p *Processor) Run() {
	for {
		t := p.k.manager.Fetch()
		if t == nil {
			if live := p.k.liveTasks(); live > 0 {
				// Cooperative core, empty ready set, live tasks:
				// nothing can ever run them again.
				log.Warningf("processor stalled: %d live tasks but none ready", live)
			}
			return
		}

		t.mu.Lock()
		t.status = TaskRunning
		t.info.status = TaskRunning
		if !t.started {
			t.started = true
			t.startMs = p.k.Clock.NowMicroseconds() / 1000
		}
		t.mu.Unlock()

		log.Debugf("running task %d (%s)", t.ID(), t.Name())
		p.current = t
		transfer(p.idle, t.ctx)
		p.current = nil
	}
}

// Yield suspends the current task back to the ready set and resumes the
// idle loop. It returns when the task is next scheduled.
func (p *Processor) Yield() {
	t := p.Current()
	p.k.manager.Add(t)
	transfer(t.ctx, p.idle)
}

// Exit terminates the current task with code, releases its address space,
// and resumes the idle loop. It never returns.
func (p *Processor) Exit(code int64) {
	t := p.Current()

	t.mu.Lock()
	t.status = TaskExited
	t.info.status = TaskExited
	t.exitCode = code
	as := t.as
	t.as = nil
	t.mu.Unlock()

	if as != nil {
		as.Destroy()
	}
	p.k.taskExited()

	log.Infof("task %d (%s) exited with code %d", t.ID(), t.Name(), code)
	finishTransfer(p.idle)
	panic("unreachable")
}

// CurrentMMap installs a mapping in the current task's address space.
func (p *Processor) CurrentMMap(addr sv39.Addr, length uint64, port uint64) error {
	return p.Current().AddressSpace().MMap(addr, length, port)
}

// CurrentMUnmap removes a mapping from the current task's address space.
func (p *Processor) CurrentMUnmap(addr sv39.Addr, length uint64) error {
	return p.Current().AddressSpace().MUnmap(addr, length)
}

// CountSyscall charges one invocation of sysno to the current task.
func (p *Processor) CountSyscall(sysno abi.Sysno) {
	t := p.Current()
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(sysno) < len(t.info.syscallTimes) {
		t.info.syscallTimes[sysno]++
	}
}

// TaskInfo returns the current task's accounting snapshot. TimeMs is the
// wall time since the task first ran.
func (p *Processor) TaskInfo() abi.TaskInfo {
	t := p.Current()
	nowMs := p.k.Clock.NowMicroseconds() / 1000

	t.mu.Lock()
	defer t.mu.Unlock()
	info := abi.TaskInfo{
		Status: uint64(t.info.status),
		TimeMs: nowMs - t.startMs,
	}
	copy(info.SyscallTimes[:], t.info.syscallTimes[:])
	return info
}
