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

package kfs

import (
	"io"

	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/syserror"
)

// stdin is the read side of the console. There is no input source, so
// every read reports end of file.
type stdin struct{}

// NewStdin returns the console input file.
func NewStdin() File {
	return &stdin{}
}

func (*stdin) Readable() bool { return true }
func (*stdin) Writable() bool { return false }

func (*stdin) Read(buf UserBuffer) (int, error) {
	return 0, nil
}

func (*stdin) Write(buf UserBuffer) (int, error) {
	return 0, syserror.ErrInvalidArgument
}

func (*stdin) Stat() (abi.Stat, error) {
	return abi.Stat{Mode: abi.ModeFile, Nlink: 1}, nil
}

// stdout is the write side of the console, backed by an io.Writer.
type stdout struct {
	w io.Writer
}

// NewStdout returns a console output file writing to w.
func NewStdout(w io.Writer) File {
	return &stdout{w: w}
}

func (*stdout) Readable() bool { return false }
func (*stdout) Writable() bool { return true }

func (*stdout) Read(buf UserBuffer) (int, error) {
	return 0, syserror.ErrInvalidArgument
}

func (f *stdout) Write(buf UserBuffer) (int, error) {
	done := 0
	for _, b := range buf {
		n, err := f.w.Write(b)
		done += n
		if err != nil {
			return done, err
		}
	}
	return done, nil
}

func (*stdout) Stat() (abi.Stat, error) {
	return abi.Stat{Mode: abi.ModeFile, Nlink: 1}, nil
}
