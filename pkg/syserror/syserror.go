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

// Package syserror contains the kernel's error values, exported as error
// interface instead of raw errnos. This allows for fast comparison inside
// the kernel; errors are translated to an errno only at the syscall
// boundary, where failures leave the kernel as a negative integer sentinel.
package syserror

import (
	"errors"

	"golang.org/x/sys/unix"
)

var (
	// ErrNoFrame is returned when the frame pool is exhausted during
	// page-table growth or mmap.
	ErrNoFrame = errors.New("no physical frame available")

	// ErrAlreadyMapped is returned by map operations when the target leaf
	// entry is already valid. The existing mapping is left untouched.
	ErrAlreadyMapped = errors.New("page is already mapped")

	// ErrNotMapped is returned when an unmap or translation finds no valid
	// entry along the walk.
	ErrNotMapped = errors.New("page is not mapped")

	// ErrInvalidArgument is returned for misaligned or empty ranges and
	// out-of-range priorities.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBadFD is returned for operations on descriptors that are not
	// open, or that lack the requested capability.
	ErrBadFD = errors.New("bad file descriptor")

	// ErrNoEntry is returned when a file name does not resolve.
	ErrNoEntry = errors.New("no such file")

	// ErrExists is returned when a link target name is already taken.
	ErrExists = errors.New("name already exists")

	// ErrNoSys is returned for syscall numbers with no handler.
	ErrNoSys = errors.New("syscall not implemented")
)

// errorMap converts kernel errors into errnos.
var errorMap = map[error]unix.Errno{
	ErrNoFrame:         unix.ENOMEM,
	ErrAlreadyMapped:   unix.EEXIST,
	ErrNotMapped:       unix.EFAULT,
	ErrInvalidArgument: unix.EINVAL,
	ErrBadFD:           unix.EBADF,
	ErrNoEntry:         unix.ENOENT,
	ErrExists:          unix.EEXIST,
	ErrNoSys:           unix.ENOSYS,
}

// ToErrno translates a kernel error to an errno. Unregistered errors map to
// EINVAL rather than escaping the syscall ABI as structured values.
func ToErrno(err error) unix.Errno {
	if errno, ok := errorMap[err]; ok {
		return errno
	}
	return unix.EINVAL
}

// Sentinel returns the negative integer form of err for the syscall ABI.
func Sentinel(err error) int64 {
	return -int64(ToErrno(err))
}
