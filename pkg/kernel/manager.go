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
	"github.com/picokern/picokern/pkg/kernel/sched"
	"github.com/picokern/picokern/pkg/sync"
)

// TaskManager owns the ready set. Fetching and adding are short critical
// sections under a checked mutex; the mutex is never held while a task
// runs.
type TaskManager struct {
	mu    sync.CheckedMutex
	ready sched.ReadySet
}

// NewTaskManager returns an empty manager.
func NewTaskManager() *TaskManager {
	return &TaskManager{mu: sync.NewCheckedMutex("task manager")}
}

// Add marks t ready and queues it.
func (tm *TaskManager) Add(t *Task) {
	t.mu.Lock()
	t.status = TaskReady
	t.info.status = TaskReady
	t.mu.Unlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.ready.Add(t)
}

// Fetch removes and returns the next task under the stride policy, or nil
// if the ready set is empty.
func (tm *TaskManager) Fetch() *Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	r := tm.ready.FetchMinStride()
	if r == nil {
		return nil
	}
	return r.(*Task)
}

// Len returns the number of queued tasks.
func (tm *TaskManager) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.ready.Len()
}
