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
	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/sv39"
	"github.com/picokern/picokern/pkg/syserror"
)

// sysMmap maps args[1] bytes of fresh zeroed memory at args[0] with the
// permission bits in args[2].
func sysMmap(t *kernel.Task, args Arguments) int64 {
	if err := t.Kernel().Processor().CurrentMMap(sv39.Addr(args[0]), args[1], args[2]); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}

// sysMunmap removes the mappings covering [args[0], args[0]+args[1]).
func sysMunmap(t *kernel.Task, args Arguments) int64 {
	if err := t.Kernel().Processor().CurrentMUnmap(sv39.Addr(args[0]), args[1]); err != nil {
		return syserror.Sentinel(err)
	}
	return 0
}

// sysSbrk moves the program break by the signed delta in args[0] and
// returns the old break.
func sysSbrk(t *kernel.Task, args Arguments) int64 {
	old := t.AddressSpace().SetBrk(int64(args[0]))
	return int64(old)
}
