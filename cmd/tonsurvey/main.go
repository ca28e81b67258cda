// Copyright 2026 Blink Labs Software
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
	"encoding/json"
	"fmt"
	"os"

	"github.com/blinklabs-io/tonsurvey/cmd/common"
)

func main() {
	f := common.NewGlobalFlags()
	cfg := f.Parse()
	logger := common.NewLogger(cfg)

	args := f.Args()
	if len(args) == 0 {
		fmt.Printf("You must specify a subcommand (artifact, survey, summary or chain-info)\n")
		os.Exit(1)
	}
	var err error
	switch args[0] {
	case "artifact":
		err = runArtifact(cfg, logger, args[1:])
	case "survey":
		err = runSurvey(cfg, logger, args[1:])
	case "summary":
		err = runSummary(args[1:])
	case "chain-info":
		err = runChainInfo(cfg, logger)
	default:
		fmt.Printf("Unknown subcommand: %s\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
