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

// Package syscalls implements the syscall dispatch table. Results follow
// the kernel ABI: non-negative on success, the negated errno on failure.
package syscalls

import (
	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/log"
	"github.com/picokern/picokern/pkg/syserror"
)

// Arguments are the up-to-six register arguments of a syscall.
type Arguments [6]uint64

// SyscallFn handles one syscall for the current task.
type SyscallFn func(t *kernel.Task, args Arguments) int64

// table maps syscall numbers to handlers.
var table = map[abi.Sysno]SyscallFn{
	abi.SysUnlinkAt:    sysUnlinkAt,
	abi.SysLinkAt:      sysLinkAt,
	abi.SysOpenAt:      sysOpenAt,
	abi.SysClose:       sysClose,
	abi.SysRead:        sysRead,
	abi.SysWrite:       sysWrite,
	abi.SysFstat:       sysFstat,
	abi.SysExit:        sysExit,
	abi.SysYield:       sysYield,
	abi.SysSetPriority: sysSetPriority,
	abi.SysGetTime:     sysGetTime,
	abi.SysSbrk:        sysSbrk,
	abi.SysMunmap:      sysMunmap,
	abi.SysMmap:        sysMmap,
	abi.SysTaskInfo:    sysTaskInfo,
}

// Env is the syscall entry point handed to task bodies. It stands in for
// the trap path: counting, dispatch, and the errno convention live here.
type Env struct {
	k *kernel.Kernel
}

// NewEnv returns an Env dispatching into k.
func NewEnv(k *kernel.Kernel) *Env {
	return &Env{k: k}
}

// Call invokes sysno with args on behalf of the current task. It must only
// be called from a task flow.
func (e *Env) Call(sysno abi.Sysno, args ...uint64) int64 {
	p := e.k.Processor()
	t := p.Current()
	p.CountSyscall(sysno)

	fn, ok := table[sysno]
	if !ok {
		log.Warningf("task %d (%s): unsupported syscall %d", t.ID(), t.Name(), sysno)
		return syserror.Sentinel(syserror.ErrNoSys)
	}
	var a Arguments
	copy(a[:], args)
	return fn(t, a)
}
