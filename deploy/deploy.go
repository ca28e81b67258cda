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

package deploy

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net"
	"syscall"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/contract"
	"github.com/blinklabs-io/tonsurvey/survey"
)

// UnavailableMessage is reported when the deployment service cannot be reached
const UnavailableMessage = "deployment service is unavailable, try again later"

// Request is what the provider needs to prepare a deployment
type Request struct {
	// Package is the contract package as produced by the compiler
	Package []byte
	// Data is the bag of cells of the initial data cell
	Data    []byte
	Testnet bool
}

// Provider prepares a deployment and returns a link that completes it
type Provider interface {
	PrepareDeployment(ctx context.Context, req Request) (string, error)
}

// ArtifactResolver looks up a loaded artifact by its hash. contract.Store implements it
type ArtifactResolver interface {
	ByHash(ctx context.Context, hash string) (*contract.Artifact, error)
}

// RemoteError is a provider failure. Transient errors are worth retrying later
type RemoteError struct {
	Message   string
	Transient bool
	Err       error
}

func (e RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "deployment failed"
}

func (e RemoteError) Unwrap() error {
	return e.Err
}

// PreparerOptionFunc is a type that represents functions that modify the preparer config
type PreparerOptionFunc func(*Preparer)

// WithLogger specifies the logger used for provider failures
func WithLogger(logger *slog.Logger) PreparerOptionFunc {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// Preparer turns a loaded artifact into a deployment link
type Preparer struct {
	artifacts ArtifactResolver
	provider  Provider
	logger    *slog.Logger
}

// NewPreparer returns a preparer for the artifacts known to resolver
func NewPreparer(artifacts ArtifactResolver, provider Provider, opts ...PreparerOptionFunc) *Preparer {
	p := &Preparer{
		artifacts: artifacts,
		provider:  provider,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// CreateLink prepares the deployment of the artifact with the given hash. Any network other
// than mainnet deploys to testnet
func (p *Preparer) CreateLink(ctx context.Context, hash string, network survey.Network) (string, error) {
	if hash == "" {
		return "", errors.New("hash is required")
	}
	artifact, err := p.artifacts.ByHash(ctx, hash)
	if err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(artifact.DataBoc)
	if err != nil {
		return "", boc.FormatError{Reason: "invalid data envelope", Err: err}
	}
	url, err := p.provider.PrepareDeployment(
		ctx,
		Request{
			Package: artifact.Pkg,
			Data:    data,
			Testnet: network != survey.NetworkMainnet,
		},
	)
	if err != nil {
		ret := translateError(err)
		p.logger.Error(
			"failed to prepare deployment",
			"component", "deploy",
			"hash", hash,
			"transient", ret.Transient,
			"error", err,
		)
		return "", ret
	}
	return url, nil
}

func translateError(err error) RemoteError {
	if isConnectionError(err) {
		return RemoteError{
			Message:   UnavailableMessage,
			Transient: true,
			Err:       err,
		}
	}
	return RemoteError{Err: err}
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
