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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/picokern/picokern/pkg/kernel"
	"github.com/picokern/picokern/pkg/log"
	"github.com/picokern/picokern/pkg/syscalls"
)

// runCmd implements subcommands.Command for the "run" command.
type runCmd struct {
	workload string
}

// Name implements subcommands.Command.Name.
func (*runCmd) Name() string {
	return "run"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*runCmd) Synopsis() string {
	return "run a workload to completion"
}

// Usage implements subcommands.Command.Usage.
func (*runCmd) Usage() string {
	return `run --workload <file> - run the tasks described by a TOML workload file.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.workload, "workload", "", "path to the workload file")
}

// Execute implements subcommands.Command.Execute.
func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if r.workload == "" {
		fmt.Fprintln(os.Stderr, "run: --workload is required")
		return subcommands.ExitUsageError
	}
	w, err := LoadWorkload(r.workload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return subcommands.ExitFailure
	}

	k, err := kernel.New(kernel.Config{MemoryPages: w.MemoryPages})
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return subcommands.ExitFailure
	}
	env := syscalls.NewEnv(k)
	tasks, err := w.Start(k, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return subcommands.ExitFailure
	}

	log.Infof("running workload %s", r.workload)
	k.Run()

	status := subcommands.ExitSuccess
	for _, task := range tasks {
		code := task.ExitCode()
		log.Infof("task %d (%s) exit code %d", task.ID(), task.Name(), code)
		if code != 0 {
			status = subcommands.ExitFailure
		}
	}
	return status
}
