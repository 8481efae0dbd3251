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

package sv39

// AccessType specifies memory access types.
type AccessType struct {
	// Read is read access.
	Read bool

	// Write is write access.
	Write bool

	// Execute is execute access.
	Execute bool
}

// Convenient access types.
var (
	NoAccess    = AccessType{}
	Read        = AccessType{Read: true}
	Write       = AccessType{Write: true}
	ReadWrite   = AccessType{Read: true, Write: true}
	Execute     = AccessType{Execute: true}
	ReadExecute = AccessType{Read: true, Execute: true}
	AnyAccess   = AccessType{Read: true, Write: true, Execute: true}
)

// AccessTypeFromPort decodes the mmap port argument: bit 0 requests read,
// bit 1 write, bit 2 execute.
func AccessTypeFromPort(port uint64) AccessType {
	return AccessType{
		Read:    port&1 != 0,
		Write:   port&2 != 0,
		Execute: port&4 != 0,
	}
}

// Port encodes the access type back into the mmap port format.
func (a AccessType) Port() uint64 {
	var port uint64
	if a.Read {
		port |= 1
	}
	if a.Write {
		port |= 2
	}
	if a.Execute {
		port |= 4
	}
	return port
}

// Any returns true iff at least one of Read, Write or Execute is true.
func (a AccessType) Any() bool {
	return a.Read || a.Write || a.Execute
}

// String implements fmt.Stringer.String.
func (a AccessType) String() string {
	s := [3]byte{'-', '-', '-'}
	if a.Read {
		s[0] = 'r'
	}
	if a.Write {
		s[1] = 'w'
	}
	if a.Execute {
		s[2] = 'x'
	}
	return string(s[:])
}
