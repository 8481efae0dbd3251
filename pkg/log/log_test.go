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

package log

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, fmt.Errorf("simulated failure")
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	if len(tw.lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(tw.lines), tw.lines)
	}
	if !strings.Contains(tw.lines[1], "Dropped 2 log messages") {
		t.Errorf("dropped-message marker missing, got %q", tw.lines[1])
	}
	if tw.lines[2] != "line 2\n" {
		t.Errorf("got line %q, want %q", tw.lines[2], "line 2\n")
	}
}

func TestLevels(t *testing.T) {
	var l Logger
	tw := &testWriter{}
	var e Emitter = TextEmitter{&Writer{Next: tw}}
	l.e.Store(&e)

	for _, level := range []Level{Warning, Info, Debug} {
		l.level.Store(uint32(level))
		tw.lines = nil
		l.Warningf("warning")
		l.Infof("info")
		l.Debugf("debug")
		if got, want := len(tw.lines), int(level)+1; got != want {
			t.Errorf("level %v: got %d lines, want %d", level, got, want)
		}
	}
}

func TestTextEmitterFormat(t *testing.T) {
	tw := &testWriter{}
	e := TextEmitter{&Writer{Next: tw}}
	e.Emit(Info, time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC), "x = %d", 42)
	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(tw.lines))
	}
	if want := "I0203 04:05:06.000000] x = 42\n"; tw.lines[0] != want {
		t.Errorf("got %q, want %q", tw.lines[0], want)
	}
}
