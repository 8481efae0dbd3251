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
	"github.com/picokern/picokern/pkg/abi"
	"github.com/picokern/picokern/pkg/sync"
	"github.com/picokern/picokern/pkg/syserror"
)

// OpenFlags are the sys_openat flags.
type OpenFlags uint32

const (
	// ReadOnly opens for reading. It is the zero flag word.
	ReadOnly OpenFlags = 0

	// WriteOnly opens for writing.
	WriteOnly OpenFlags = 1 << 0

	// ReadWrite opens for both.
	ReadWrite OpenFlags = 1 << 1

	// Create creates the file if absent and truncates it if present.
	Create OpenFlags = 1 << 9

	// Truncate discards existing contents.
	Truncate OpenFlags = 1 << 10
)

// readable returns whether the flags grant read access.
func (f OpenFlags) readable() bool {
	return f&WriteOnly == 0 || f&ReadWrite != 0
}

// writable returns whether the flags grant write access.
func (f OpenFlags) writable() bool {
	return f&(WriteOnly|ReadWrite) != 0
}

// inode is the storage behind one or more names. Contents live entirely in
// kernel memory.
type inode struct {
	ino   uint64
	data  []byte
	nlink uint32
}

// Registry is a flat namespace of in-memory files supporting hard links.
// Names have no hierarchy; "a/b" is just a name with a slash in it.
type Registry struct {
	mu      sync.CheckedMutex
	names   map[string]*inode
	nextIno uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:      sync.NewCheckedMutex("file registry"),
		names:   map[string]*inode{},
		nextIno: 1,
	}
}

// Open opens name with flags. Without Create the name must exist; with
// Create a missing name is created empty and an existing one is truncated.
func (r *Registry) Open(name string, flags OpenFlags) (File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.names[name]
	switch {
	case !ok && flags&Create == 0:
		return nil, syserror.ErrNoEntry
	case !ok:
		n = &inode{ino: r.nextIno, nlink: 1}
		r.nextIno++
		r.names[name] = n
	case flags&(Create|Truncate) != 0:
		n.data = n.data[:0]
	}

	return &registryFile{
		node:     n,
		readable: flags.readable(),
		writable: flags.writable(),
	}, nil
}

// Link gives the file named oldname the additional name newname. Linking
// a name to itself or over an existing name fails.
func (r *Registry) Link(oldname, newname string) error {
	if oldname == newname {
		return syserror.ErrInvalidArgument
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.names[oldname]
	if !ok {
		return syserror.ErrNoEntry
	}
	if _, ok := r.names[newname]; ok {
		return syserror.ErrExists
	}
	n.nlink++
	r.names[newname] = n
	return nil
}

// Unlink removes name. The storage is reclaimed when the last name is
// gone; open files keep their inode alive regardless.
func (r *Registry) Unlink(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.names[name]
	if !ok {
		return syserror.ErrNoEntry
	}
	n.nlink--
	delete(r.names, name)
	return nil
}

// registryFile is an open registry file with a private offset.
type registryFile struct {
	node     *inode
	offset   int
	readable bool
	writable bool
}

func (f *registryFile) Readable() bool { return f.readable }
func (f *registryFile) Writable() bool { return f.writable }

func (f *registryFile) Read(buf UserBuffer) (int, error) {
	if !f.readable {
		return 0, syserror.ErrInvalidArgument
	}
	if f.offset >= len(f.node.data) {
		return 0, nil
	}
	n := buf.CopyOut(f.node.data[f.offset:])
	f.offset += n
	return n, nil
}

func (f *registryFile) Write(buf UserBuffer) (int, error) {
	if !f.writable {
		return 0, syserror.ErrInvalidArgument
	}
	src := make([]byte, buf.Len())
	buf.CopyIn(src)
	if grow := f.offset + len(src) - len(f.node.data); grow > 0 {
		f.node.data = append(f.node.data, make([]byte, grow)...)
	}
	copy(f.node.data[f.offset:], src)
	f.offset += len(src)
	return len(src), nil
}

func (f *registryFile) Stat() (abi.Stat, error) {
	return abi.Stat{
		Ino:   f.node.ino,
		Mode:  abi.ModeFile,
		Nlink: f.node.nlink,
	}, nil
}
