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
	"runtime"
)

// TaskContext is a suspendable control flow. On real hardware this is a
// callee-saved register snapshot restored by the low-level switch routine;
// here each context is a goroutine parked on its resume channel, and the
// switch routine is the only place control moves between them. Exactly one
// context is running at any time.
type TaskContext struct {
	resume chan struct{}
}

// newTaskContext returns a context that will run entry when first resumed.
// entry must not return; it must end its flow through finishTransfer.
func newTaskContext(entry func()) *TaskContext {
	c := &TaskContext{resume: make(chan struct{})}
	go func() {
		<-c.resume
		entry()
		panic("kernel: task flow returned from its entry")
	}()
	return c
}

// newIdleContext returns a context for a flow that already exists: the
// caller of Processor.Run.
func newIdleContext() *TaskContext {
	return &TaskContext{resume: make(chan struct{})}
}

// transfer suspends the calling flow, which must be running on from, and
// resumes to. It returns when something transfers back to from. No
// exclusive-access guard may be held across this call.
func transfer(from, to *TaskContext) {
	to.resume <- struct{}{}
	<-from.resume
}

// finishTransfer resumes to and terminates the calling flow. It never
// returns.
func finishTransfer(to *TaskContext) {
	to.resume <- struct{}{}
	runtime.Goexit()
}
