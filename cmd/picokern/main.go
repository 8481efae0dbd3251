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

// Binary picokern runs user workloads on a simulated cooperative kernel.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/picokern/picokern/pkg/log"
)

var (
	debug     = flag.Bool("debug", false, "enable debug logging")
	logFormat = flag.String("log-format", "text", `log format: "text" or "json"`)
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(runCmd), "")
	subcommands.Register(new(versionCmd), "")

	flag.Parse()

	e := log.Emitter(log.TextEmitter{Writer: &log.Writer{Next: os.Stderr}})
	if *logFormat == "json" {
		e = log.JSONEmitter{Writer: &log.Writer{Next: os.Stderr}}
	}
	log.SetTarget(e)
	if *debug {
		log.SetLevel(log.Debug)
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
