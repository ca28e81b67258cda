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
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	CompiledFilename = "NftProccessing.compiled.json"
	PackageFilename  = "NftProccessing.pkg"
)

// Source provides the raw files an artifact is built from
type Source interface {
	ReadCompiled(ctx context.Context) ([]byte, error)
	ReadPackage(ctx context.Context) ([]byte, error)
}

// pathSource is implemented by sources backed by files
type pathSource interface {
	CompiledPath() string
	PackagePath() string
}

// FileSource reads the compiled artifact and package from a contract directory
type FileSource struct {
	Dir string
}

func (f FileSource) CompiledPath() string {
	return filepath.Join(f.Dir, CompiledFilename)
}

func (f FileSource) PackagePath() string {
	return filepath.Join(f.Dir, PackageFilename)
}

func (f FileSource) ReadCompiled(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.CompiledPath())
}

func (f FileSource) ReadPackage(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.PackagePath())
}

// ArtifactNotFoundError indicates a lookup for a hash other than the loaded artifact's
type ArtifactNotFoundError struct {
	Requested string
	Available string
}

func (e ArtifactNotFoundError) Error() string {
	return fmt.Sprintf(
		"no artifact with hash %s, available hash: %s",
		e.Requested,
		e.Available,
	)
}

// Store loads the artifact once per process and hands the same instance to every caller.
// Concurrent first loads are coalesced. A failed load is not remembered, so a later call
// tries again
type Store struct {
	source Source
	logger *slog.Logger
	group  singleflight.Group
	// protect artifact with mutex
	mu       sync.RWMutex
	artifact *Artifact
}

// NewStore returns a store reading from source
func NewStore(source Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		source: source,
		logger: logger,
	}
}

func (s *Store) cached() *Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact
}

// Get returns the artifact, loading it on first use. The shared load does not stop when the
// caller that started it gives up. Each caller stops waiting when its own context is done
func (s *Store) Get(ctx context.Context) (*Artifact, error) {
	if ret := s.cached(); ret != nil {
		return ret, nil
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("artifact", func() (any, error) {
		if ret := s.cached(); ret != nil {
			return ret, nil
		}
		ret, err := s.load(loadCtx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.artifact = ret
		s.mu.Unlock()
		return ret, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Artifact), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) load(ctx context.Context) (*Artifact, error) {
	var compiledRaw, pkg []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		compiledRaw, err = s.source.ReadCompiled(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pkg, err = s.source.ReadPackage(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read contract artifact: %w", err)
	}
	compiled, err := ParseCompiled(compiledRaw)
	if err != nil {
		return nil, err
	}
	opts := []ArtifactOptionFunc{WithLogger(s.logger)}
	if paths, ok := s.source.(pathSource); ok {
		opts = append(
			opts,
			WithSourcePath(paths.CompiledPath()),
			WithPkgPath(paths.PackagePath()),
		)
	}
	ret, err := NewArtifact(compiled, pkg, opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(
		"loaded contract artifact",
		"component", "contract",
		"hash", ret.Hash,
		"decode_status", ret.Decode.Status.String(),
	)
	return ret, nil
}

// Summary returns the artifact without its package bytes
func (s *Store) Summary(ctx context.Context) (*ArtifactSummary, error) {
	artifact, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return artifact.Summary()
}

// ByHash returns the artifact if its hash matches
func (s *Store) ByHash(ctx context.Context, hash string) (*Artifact, error) {
	artifact, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if artifact.Hash != hash {
		return nil, ArtifactNotFoundError{
			Requested: hash,
			Available: artifact.Hash,
		}
	}
	return artifact, nil
}
