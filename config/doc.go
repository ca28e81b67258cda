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

// Package config loads the YAML configuration of the tonsurvey tools.
//
// Values come from the defaults, then the optional config file, then the environment:
//
//	TON_JSONRPC_MAINNET, TON_JSONRPC_TESTNET              JSON-RPC endpoints
//	TONCENTER_MAINNET_API_KEY, TONCENTER_TESTNET_API_KEY  API keys
//	TONSURVEY_CONTRACT_DIR                                contract artifact directory
package config
