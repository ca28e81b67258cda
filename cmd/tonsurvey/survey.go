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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/blinklabs-io/tonsurvey/cmd/common"
	"github.com/blinklabs-io/tonsurvey/config"
	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/spf13/pflag"
)

type surveyFlags struct {
	flagset  *pflag.FlagSet
	contract string
	address  string
	summary  bool
	report   string
}

func newSurveyFlags() *surveyFlags {
	f := &surveyFlags{
		flagset: pflag.NewFlagSet("survey", pflag.ExitOnError),
	}
	f.flagset.StringVar(&f.contract, "contract", "", "survey to run. defaults to the configured survey")
	f.flagset.StringVar(&f.address, "address", "", "contract address to survey")
	f.flagset.BoolVar(&f.summary, "summary", false, "print the base64 summary chain instead of the full result")
	f.flagset.StringVar(&f.report, "report", "", "also write a CBOR report to this file")
	return f
}

func runSurvey(cfg *config.Config, logger *slog.Logger, args []string) error {
	f := newSurveyFlags()
	if err := f.flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse subcommand args: %w", err)
	}
	contractID := f.contract
	if contractID == "" {
		contractID = cfg.Survey.Contract
	}
	target, ok := survey.ContractByID(contractID)
	if !ok {
		return fmt.Errorf("unknown survey: %s", contractID)
	}
	address := f.address
	if address == "" {
		address = target.DefaultAddress
	}
	if address == "" {
		return errors.New("you must specify --address")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	run := survey.Execute(
		ctx,
		target,
		common.NewClient(cfg, logger),
		address,
		cfg.Survey.Network,
		survey.WithRunLogger(logger),
	)
	if f.report != "" {
		data, err := survey.EncodeReport(run)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.report, data, 0o600); err != nil {
			return err
		}
		logger.Info("wrote survey report", "path", f.report, "size", len(data))
	}
	if f.summary {
		encoded, err := survey.EncodeSummary(survey.SummaryFromRun(run))
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	}
	return printJSON(run)
}
