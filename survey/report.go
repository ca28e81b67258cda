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

package survey

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/tonsurvey/cbor"
)

// ReportVersion is the version written by EncodeReport
const ReportVersion = 1

// Report is a persisted survey run together with its summary chain. It is encoded as a CBOR
// array whose first element is the version
type Report struct {
	cbor.StructAsArray
	Version uint
	Run     *RunResult
	// Summary is the base64 summary chain of Run
	Summary string
}

// EncodeReport returns the CBOR encoding of a run report. Raw client responses are not kept
func EncodeReport(run *RunResult) ([]byte, error) {
	summary, err := EncodeSummary(SummaryFromRun(run))
	if err != nil {
		return nil, err
	}
	return cbor.Encode(&Report{
		Version: ReportVersion,
		Run:     run,
		Summary: summary,
	})
}

// DecodeReport decodes a report produced by EncodeReport. The version is checked before the
// rest of the report is decoded
func DecodeReport(data []byte) (*Report, error) {
	var fields []cbor.RawMessage
	if err := cbor.DecodeExact(data, &fields); err != nil {
		return nil, fmt.Errorf("decode survey report: %w", err)
	}
	if len(fields) == 0 {
		return nil, errors.New("decode survey report: empty report")
	}
	var version uint
	if err := cbor.DecodeExact(fields[0], &version); err != nil {
		return nil, fmt.Errorf("decode survey report version: %w", err)
	}
	if version != ReportVersion {
		return nil, fmt.Errorf("unsupported survey report version %d", version)
	}
	var ret Report
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return nil, fmt.Errorf("decode survey report: %w", err)
	}
	return &ret, nil
}
