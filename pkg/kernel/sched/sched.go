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

// Package sched implements ready-set scheduling policies.
//
// The stride policy is priority-weighted fair scheduling: each selection
// advances the selected entry's stride by BigStride divided by its
// priority, and the entry with the smallest stride runs next. An entry
// with priority P is therefore selected about P times as often as an entry
// with priority 1.
package sched

import (
	"fmt"
)

// BigStride is the stride-increment numerator.
const BigStride = 0x10000000

// Runnable is a ready-set entry.
type Runnable interface {
	// Stride returns the scheduling stride accumulator.
	Stride() uint64

	// AddStride advances the accumulator by delta.
	AddStride(delta uint64)

	// Priority returns the stride divisor. It must be at least 1; the
	// scheduler treats 0 as a caller bug and panics rather than fault
	// on the division.
	Priority() uint64
}

// ReadySet is an ordered collection of runnable entries. Insertion order
// is the tie-break order for the stride policy.
type ReadySet struct {
	queue []Runnable
}

// Len returns the number of queued entries.
func (rs *ReadySet) Len() int {
	return len(rs.queue)
}

// Add appends r to the set. The caller guarantees r is ready to run.
func (rs *ReadySet) Add(r Runnable) {
	rs.queue = append(rs.queue, r)
}

// FetchFIFO removes and returns the earliest-inserted entry, or nil if the
// set is empty. It is the baseline round-robin policy and does not touch
// strides.
func (rs *ReadySet) FetchFIFO() Runnable {
	if len(rs.queue) == 0 {
		return nil
	}
	r := rs.queue[0]
	rs.queue = rs.queue[1:]
	return r
}

// FetchMinStride removes and returns the entry with the smallest stride,
// advancing its stride by BigStride / priority. Ties resolve to the
// earliest-inserted candidate. Returns nil if the set is empty.
func (rs *ReadySet) FetchMinStride() Runnable {
	if len(rs.queue) == 0 {
		return nil
	}
	minIdx := 0
	minStride := rs.queue[0].Stride()
	for i, r := range rs.queue[1:] {
		if s := r.Stride(); s < minStride {
			minIdx, minStride = i+1, s
		}
	}
	r := rs.queue[minIdx]
	rs.queue = append(rs.queue[:minIdx], rs.queue[minIdx+1:]...)

	prio := r.Priority()
	if prio == 0 {
		panic(fmt.Sprintf("sched: entry %v has priority 0", r))
	}
	r.AddStride(BigStride / prio)
	return r
}
