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
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/contract"
	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	artifact *contract.Artifact
}

func (f fakeResolver) ByHash(ctx context.Context, hash string) (*contract.Artifact, error) {
	if hash != f.artifact.Hash {
		return nil, contract.ArtifactNotFoundError{Requested: hash, Available: f.artifact.Hash}
	}
	return f.artifact, nil
}

type fakeProvider struct {
	requests []Request
	url      string
	err      error
}

func (f *fakeProvider) PrepareDeployment(ctx context.Context, req Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.url, f.err
}

func testArtifact() *contract.Artifact {
	return &contract.Artifact{
		Hash:    "abc",
		DataBoc: base64.StdEncoding.EncodeToString([]byte{0xb5, 0xee, 0x9c, 0x72}),
		Pkg:     []byte("pkg"),
	}
}

func TestCreateLink(t *testing.T) {
	provider := &fakeProvider{url: "https://verifier.example/deploy/1"}
	preparer := NewPreparer(fakeResolver{artifact: testArtifact()}, provider)
	testDefs := []struct {
		network survey.Network
		testnet bool
	}{
		{survey.NetworkMainnet, false},
		{survey.NetworkTestnet, true},
		{"", true},
	}
	for _, testDef := range testDefs {
		url, err := preparer.CreateLink(context.Background(), "abc", testDef.network)
		require.NoError(t, err)
		assert.Equal(t, "https://verifier.example/deploy/1", url)
		req := provider.requests[len(provider.requests)-1]
		assert.Equal(t, []byte("pkg"), req.Package)
		assert.Equal(t, []byte{0xb5, 0xee, 0x9c, 0x72}, req.Data)
		assert.Equal(t, testDef.testnet, req.Testnet)
	}
}

func TestCreateLinkLookupErrors(t *testing.T) {
	provider := &fakeProvider{}
	preparer := NewPreparer(fakeResolver{artifact: testArtifact()}, provider)
	_, err := preparer.CreateLink(context.Background(), "", survey.NetworkTestnet)
	assert.Error(t, err)
	_, err = preparer.CreateLink(context.Background(), "other", survey.NetworkTestnet)
	var notFound contract.ArtifactNotFoundError
	assert.ErrorAs(t, err, &notFound)

	broken := testArtifact()
	broken.DataBoc = "%%%"
	preparer = NewPreparer(fakeResolver{artifact: broken}, provider)
	_, err = preparer.CreateLink(context.Background(), "abc", survey.NetworkTestnet)
	assert.ErrorIs(t, err, boc.ErrFormat)
	assert.Empty(t, provider.requests)
}

func TestCreateLinkProviderErrors(t *testing.T) {
	testDefs := []struct {
		name      string
		err       error
		transient bool
	}{
		{
			name: "connection refused",
			err: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: os.NewSyscallError("connect", syscall.ECONNREFUSED),
			},
			transient: true,
		},
		{
			name:      "dns",
			err:       fmt.Errorf("upload package: %w", &net.DNSError{Err: "no such host", Name: "deployer.invalid"}),
			transient: true,
		},
		{
			name:      "deadline",
			err:       context.DeadlineExceeded,
			transient: true,
		},
		{
			name:      "reset",
			err:       fmt.Errorf("read: %w", syscall.ECONNRESET),
			transient: true,
		},
		{
			name: "rejected package",
			err:  errors.New("package is not a valid tact package"),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			provider := &fakeProvider{err: testDef.err}
			preparer := NewPreparer(fakeResolver{artifact: testArtifact()}, provider)
			_, err := preparer.CreateLink(context.Background(), "abc", survey.NetworkTestnet)
			var remoteErr RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, testDef.transient, remoteErr.Transient)
			assert.ErrorIs(t, err, testDef.err)
			if testDef.transient {
				assert.Equal(t, UnavailableMessage, err.Error())
			} else {
				assert.Equal(t, testDef.err.Error(), err.Error())
			}
		})
	}
}
