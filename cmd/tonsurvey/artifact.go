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
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/tonsurvey/cmd/common"
	"github.com/blinklabs-io/tonsurvey/config"
	"github.com/spf13/pflag"
)

type artifactFlags struct {
	flagset *pflag.FlagSet
	dir     string
	hash    string
}

func newArtifactFlags() *artifactFlags {
	f := &artifactFlags{
		flagset: pflag.NewFlagSet("artifact", pflag.ExitOnError),
	}
	f.flagset.StringVar(&f.dir, "dir", "", "contract directory. this overrides the configured directory")
	f.flagset.StringVar(&f.hash, "hash", "", "fail unless the artifact has this hash")
	return f
}

func runArtifact(cfg *config.Config, logger *slog.Logger, args []string) error {
	f := newArtifactFlags()
	if err := f.flagset.Parse(args); err != nil {
		return fmt.Errorf("failed to parse subcommand args: %w", err)
	}
	if f.dir != "" {
		cfg.Contract.Dir = f.dir
	}
	store := common.NewStore(cfg, logger)
	ctx := context.Background()
	if f.hash != "" {
		if _, err := store.ByHash(ctx, f.hash); err != nil {
			return err
		}
	}
	artifact, err := store.Get(ctx)
	if err != nil {
		return err
	}
	for _, diag := range artifact.Decode.Diagnostics {
		fmt.Fprintf(os.Stderr, "decode %s: %s\n", artifact.Decode.Status, diag)
	}
	summary, err := artifact.Summary()
	if err != nil {
		return err
	}
	return printJSON(summary)
}
