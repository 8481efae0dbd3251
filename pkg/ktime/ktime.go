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

// Package ktime provides the kernel's view of time: a monotonic clock
// counting from boot.
package ktime

import (
	"time"
)

// Clock measures time since boot.
type Clock interface {
	// NowMicroseconds returns microseconds elapsed since boot.
	NowMicroseconds() uint64
}

// NowMilliseconds returns milliseconds elapsed since boot on c.
func NowMilliseconds(c Clock) uint64 {
	return c.NowMicroseconds() / 1000
}

// RealClock counts host time from its creation.
type RealClock struct {
	start time.Time
}

// NewRealClock returns a RealClock starting now.
func NewRealClock() *RealClock {
	return &RealClock{start: time.Now()}
}

// NowMicroseconds implements Clock.NowMicroseconds.
func (c *RealClock) NowMicroseconds() uint64 {
	return uint64(time.Since(c.start).Microseconds())
}

// ManualClock is a Clock advanced explicitly, for tests.
type ManualClock struct {
	now uint64
}

// NowMicroseconds implements Clock.NowMicroseconds.
func (c *ManualClock) NowMicroseconds() uint64 {
	return c.now
}

// Advance moves the clock forward by d microseconds.
func (c *ManualClock) Advance(d uint64) {
	c.now += d
}
