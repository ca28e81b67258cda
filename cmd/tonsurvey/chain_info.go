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
	"log/slog"

	"github.com/blinklabs-io/tonsurvey/cmd/common"
	"github.com/blinklabs-io/tonsurvey/config"
)

func runChainInfo(cfg *config.Config, logger *slog.Logger) error {
	client := common.NewClient(cfg, logger)
	info, err := client.GetMasterchainInfo(context.Background())
	if err != nil {
		return err
	}
	logger.Debug("fetched masterchain info", "endpoint", client.Endpoint())
	return printJSON(info)
}
