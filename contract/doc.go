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

// Package contract loads the compiled NftProcessing contract and decodes its persistent data.
//
// The data cell layout is fixed by the contract, not described by the cell itself, and may
// drift between contract builds. DecodeState therefore never fails: it returns a DecodeResult
// whose Status says whether the state is complete, partial or missing, and whose Diagnostics
// name every field that could not be read.
package contract
