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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/spf13/pflag"
)

type summaryFlags struct {
	flagset *pflag.FlagSet
	report  string
}

func newSummaryFlags() *summaryFlags {
	f := &summaryFlags{
		flagset: pflag.NewFlagSet("summary", pflag.ExitOnError),
	}
	f.flagset.StringVar(&f.report, "report", "", "read the summary from a CBOR report file")
	return f
}

// runSummary decodes a summary chain given as an argument or taken from a report
func runSummary(args []string) error {
	f := newSummaryFlags()
	if err := f.flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse subcommand args: %w", err)
	}
	var encoded string
	switch {
	case f.report != "":
		data, err := os.ReadFile(f.report)
		if err != nil {
			return err
		}
		report, err := survey.DecodeReport(data)
		if err != nil {
			return err
		}
		encoded = report.Summary
	case f.flagset.NArg() > 0:
		encoded = strings.TrimSpace(f.flagset.Arg(0))
	default:
		return errors.New("you must specify a base64 summary or --report")
	}
	items, err := survey.DecodeSummary(encoded)
	if err != nil {
		return err
	}
	return printJSON(items)
}
