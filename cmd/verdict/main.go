// Copyright 2025 Verdict Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/**
 * @file: main.go
 * @description: verdict engine program
 */

package main

import (
	"flag"
	"fmt"

	"github.com/go-verdict/verdict/internal/bootstrap"
	"github.com/go-verdict/verdict/pkg/runner"
	"github.com/go-verdict/verdict/pkg/version"
)

var (
	configFile  string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf ./conf.d/config.toml")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		info := version.GetVersion()
		fmt.Printf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s\n",
			info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		return
	}

	printRunner()

	app, cleanup, err := bootstrap.NewApp(configFile)
	if err != nil {
		panic(err)
	}

	bootstrap.Run(app, cleanup)
}

func printRunner() {
	fmt.Println("runner.pwd:", runner.Pwd)
	fmt.Println("runner.hostname:", runner.Hostname)
}
