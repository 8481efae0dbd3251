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

package syscalls

import (
	"bytes"

	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/kfs"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

// maxPathLen bounds user-supplied path strings.
const maxPathLen = 4096

// copyInPath reads a NUL-terminated string from user memory at addr,
// one page at a time so the walk never touches pages past the terminator.
func copyInPath(t *kernel.Task, addr sv39.Addr) (string, error) {
	var path []byte
	for {
		chunk := sv39.PageSize - addr.PageOffset()
		views, err := t.AddressSpace().TranslateRange(addr, chunk)
		if err != nil {
			return "", err
		}
		v := views[0]
		if i := bytes.IndexByte(v, 0); i >= 0 {
			return string(append(path, v[:i]...)), nil
		}
		path = append(path, v...)
		if len(path) > maxPathLen {
			return "", syserror.ErrInvalidArgument
		}
		addr += sv39.Addr(chunk)
	}
}

// userBuffer translates [addr, addr+length) into page slices for file I/O.
func userBuffer(t *kernel.Task, addr sv39.Addr, length uint64) (kfs.UserBuffer, error) {
	if length == 0 {
		return nil, nil
	}
	views, err := t.AddressSpace().TranslateRange(addr, length)
	if err != nil {
		return nil, err
	}
	return kfs.UserBuffer(views), nil
}

// sysOpenAt opens the path at args[1] with the flags in args[2]. The
// directory descriptor in args[0] and the mode in args[3] are ignored; the
// namespace is flat.
func sysOpenAt(t *kernel.Task, args Arguments) int64 {
	path, err := copyInPath(t, sv39.Addr(args[1]))
	if err != nil {
		return syserror.Sentinel(err)
	}
	f, err := t.Kernel().Registry.Open(path, kfs.OpenFlags(args[2]))
	if err != nil {
		return syserror.Sentinel(err)
	}
	return int64(t.AddFile(f))
}

// sysClose releases descriptor args[0].
func sysClose(t *kernel.Task, args Arguments) int64 {
	if err := t.RemoveFile(int(int64(args[0]))); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}

// sysRead reads up to args[2] bytes from descriptor args[0] into user
// memory at args[1].
func sysRead(t *kernel.Task, args Arguments) int64 {
	f, err := t.File(int(int64(args[0])))
	if err != nil {
		return syserror.Sentinel(err)
	}
	if !f.Readable() {
		return syserror.Sentinel(syserror.ErrBadFD)
	}
	buf, err := userBuffer(t, sv39.Addr(args[1]), args[2])
	if err != nil {
		return syserror.Sentinel(err)
	}
	n, err := f.Read(buf)
	if err != nil {
		return syserror.Sentinel(err)
	}
	return int64(n)
}

// sysWrite writes args[2] bytes of user memory at args[1] to descriptor
// args[0].
func sysWrite(t *kernel.Task, args Arguments) int64 {
	f, err := t.File(int(int64(args[0])))
	if err != nil {
		return syserror.Sentinel(err)
	}
	if !f.Writable() {
		return syserror.Sentinel(syserror.ErrBadFD)
	}
	buf, err := userBuffer(t, sv39.Addr(args[1]), args[2])
	if err != nil {
		return syserror.Sentinel(err)
	}
	n, err := f.Write(buf)
	if err != nil {
		return syserror.Sentinel(err)
	}
	return int64(n)
}

// sysFstat writes the Stat record of descriptor args[0] to args[1].
func sysFstat(t *kernel.Task, args Arguments) int64 {
	f, err := t.File(int(int64(args[0])))
	if err != nil {
		return syserror.Sentinel(err)
	}
	st, err := f.Stat()
	if err != nil {
		return syserror.Sentinel(err)
	}
	buf := make([]byte, st.SizeBytes())
	st.MarshalBytes(buf)
	if _, err := t.AddressSpace().CopyOut(sv39.Addr(args[1]), buf); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}

// sysLinkAt links the path at args[3] to the file named by the path at
// args[1]. Directory descriptors and flags are ignored.
func sysLinkAt(t *kernel.Task, args Arguments) int64 {
	oldpath, err := copyInPath(t, sv39.Addr(args[1]))
	if err != nil {
		return syserror.Sentinel(err)
	}
	newpath, err := copyInPath(t, sv39.Addr(args[3]))
	if err != nil {
		return syserror.Sentinel(err)
	}
	if err := t.Kernel().Registry.Link(oldpath, newpath); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}

// sysUnlinkAt removes the path at args[1].
func sysUnlinkAt(t *kernel.Task, args Arguments) int64 {
	path, err := copyInPath(t, sv39.Addr(args[1]))
	if err != nil {
		return syserror.Sentinel(err)
	}
	if err := t.Kernel().Registry.Unlink(path); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}
