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

package contract

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/cell"
	"github.com/jinzhu/copier"
	"golang.org/x/crypto/blake2b"
)

// DefaultGetters lists the getters exposed by the NftProcessing contract
var DefaultGetters = []string{"get_status", "owner"}

// Compiled is the compiler output describing the contract state init
type Compiled struct {
	Hash       string `json:"hash"`
	HashBase64 string `json:"hashBase64,omitempty"`
	Hex        string `json:"hex"`
}

// ParseCompiled decodes the compiler output JSON and checks the required fields
func ParseCompiled(data []byte) (Compiled, error) {
	var ret Compiled
	if err := json.Unmarshal(data, &ret); err != nil {
		return Compiled{}, boc.FormatError{Reason: "invalid compiled artifact", Err: err}
	}
	if err := ret.validate(); err != nil {
		return Compiled{}, err
	}
	return ret, nil
}

func (c Compiled) validate() error {
	if c.Hex == "" {
		return boc.FormatError{Reason: `compiled artifact has no "hex" field`}
	}
	if c.Hash == "" {
		return boc.FormatError{Reason: `compiled artifact has no "hash" field`}
	}
	return nil
}

// Artifact is a loaded contract with its envelopes, hashes and decoded data
type Artifact struct {
	Hash               string   `json:"hash"`
	HashBase64         string   `json:"hashBase64,omitempty"`
	CodeBoc            string   `json:"codeBoc"`
	DataBoc            string   `json:"dataBoc"`
	StateInitBoc       string   `json:"stateInitBoc"`
	CodeHash           string   `json:"codeHash"`
	DataHash           string   `json:"dataHash"`
	SourcePath         string   `json:"sourcePath,omitempty"`
	SourcePathRelative string   `json:"sourcePathRelative,omitempty"`
	PkgPath            string   `json:"pkgPath,omitempty"`
	Pkg                []byte   `json:"-"`
	PkgDigest          string   `json:"pkgDigest"`
	DecodedData        *State   `json:"decodedData"`
	Getters            []string `json:"getters"`
	// Decode holds the status and diagnostics of decoding DecodedData
	Decode DecodeResult `json:"-"`
}

// ArtifactSummary is an Artifact without the package bytes
type ArtifactSummary struct {
	Hash               string   `json:"hash"`
	HashBase64         string   `json:"hashBase64,omitempty"`
	CodeBoc            string   `json:"codeBoc"`
	DataBoc            string   `json:"dataBoc"`
	StateInitBoc       string   `json:"stateInitBoc"`
	CodeHash           string   `json:"codeHash"`
	DataHash           string   `json:"dataHash"`
	SourcePath         string   `json:"sourcePath,omitempty"`
	SourcePathRelative string   `json:"sourcePathRelative,omitempty"`
	PkgPath            string   `json:"pkgPath,omitempty"`
	PkgDigest          string   `json:"pkgDigest"`
	DecodedData        *State   `json:"decodedData"`
	Getters            []string `json:"getters"`
}

// Summary returns a copy of the artifact without the package bytes
func (a *Artifact) Summary() (*ArtifactSummary, error) {
	ret := &ArtifactSummary{}
	if err := copier.Copy(ret, a); err != nil {
		return nil, err
	}
	return ret, nil
}

// ArtifactOptionFunc is a type that represents functions that modify the artifact loader config
type ArtifactOptionFunc func(*artifactConfig)

type artifactConfig struct {
	logger     *slog.Logger
	sourcePath string
	pkgPath    string
	baseDir    string
}

// WithLogger specifies the logger that receives decode diagnostics
func WithLogger(logger *slog.Logger) ArtifactOptionFunc {
	return func(c *artifactConfig) {
		c.logger = logger
	}
}

// WithSourcePath records where the compiled artifact was read from
func WithSourcePath(path string) ArtifactOptionFunc {
	return func(c *artifactConfig) {
		c.sourcePath = path
	}
}

// WithBaseDir sets the directory SourcePathRelative is computed from. It defaults to the
// working directory
func WithBaseDir(dir string) ArtifactOptionFunc {
	return func(c *artifactConfig) {
		c.baseDir = dir
	}
}

// WithPkgPath records where the package was read from
func WithPkgPath(path string) ArtifactOptionFunc {
	return func(c *artifactConfig) {
		c.pkgPath = path
	}
}

// NewArtifact decodes the state init of a compiled contract. The state init must reference the
// code cell first and the data cell second. Failing to decode the data is not an error: the
// artifact is returned with DecodedData unset and the reasons in Decode
func NewArtifact(compiled Compiled, pkg []byte, opts ...ArtifactOptionFunc) (*Artifact, error) {
	cfg := artifactConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if err := compiled.validate(); err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(compiled.Hex)
	if err != nil {
		return nil, boc.FormatError{Reason: "invalid state init hex", Err: err}
	}
	stateInit, err := boc.DeserializeRoot(raw)
	if err != nil {
		return nil, err
	}
	if stateInit.RefsCount() < 2 {
		return nil, boc.FormatError{Reason: "state init does not reference code and data"}
	}
	codeCell, err := stateInit.Ref(0)
	if err != nil {
		return nil, err
	}
	dataCell, err := stateInit.Ref(1)
	if err != nil {
		return nil, err
	}
	ret := &Artifact{
		Hash:               compiled.Hash,
		HashBase64:         compiled.HashBase64,
		CodeHash:           codeCell.Hash().String(),
		DataHash:           dataCell.Hash().String(),
		SourcePath:         cfg.sourcePath,
		SourcePathRelative: relativePath(cfg.baseDir, cfg.sourcePath),
		PkgPath:            cfg.pkgPath,
		Pkg:                pkg,
		Getters:            append([]string(nil), DefaultGetters...),
	}
	digest := blake2b.Sum256(pkg)
	ret.PkgDigest = hex.EncodeToString(digest[:])
	if ret.CodeBoc, err = toBase64(codeCell); err != nil {
		return nil, err
	}
	if ret.DataBoc, err = toBase64(dataCell); err != nil {
		return nil, err
	}
	if ret.StateInitBoc, err = toBase64(stateInit); err != nil {
		return nil, err
	}
	ret.Decode = DecodeState(dataCell)
	ret.DecodedData = ret.Decode.State
	for _, diag := range ret.Decode.Diagnostics {
		cfg.logger.Warn(
			"failed to decode contract data field",
			"component", "contract",
			"field", diag.Field,
			"status", ret.Decode.Status.String(),
			"error", diag.Err,
		)
	}
	return ret, nil
}

// relativePath returns path relative to base, or path unchanged when that is not possible
func relativePath(base string, path string) string {
	if path == "" {
		return ""
	}
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return path
	}
	return rel
}

func toBase64(c *cell.Cell) (string, error) {
	return boc.SerializeToBase64([]*cell.Cell{c}, boc.WithChecksum(false))
}
