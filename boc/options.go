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

package boc

// SerializeOptionFunc is a type that represents functions that modify the serializer config
type SerializeOptionFunc func(*serializeConfig)

type serializeConfig struct {
	index    bool
	checksum bool
}

func newSerializeConfig(opts []SerializeOptionFunc) serializeConfig {
	cfg := serializeConfig{
		checksum: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithIndex specifies whether to emit the per-cell offset index. This is disabled by default
func WithIndex(index bool) SerializeOptionFunc {
	return func(c *serializeConfig) {
		c.index = index
	}
}

// WithChecksum specifies whether to append a CRC32-C trailer. This is enabled by default
func WithChecksum(checksum bool) SerializeOptionFunc {
	return func(c *serializeConfig) {
		c.checksum = checksum
	}
}

// DeserializeOptionFunc is a type that represents functions that modify the deserializer config
type DeserializeOptionFunc func(*deserializeConfig)

type deserializeConfig struct {
	partial bool
}

// WithPartial specifies whether a truncated envelope is accepted. Cell records cut off by the
// truncation are skipped and references to them are dropped from the cells that remain. The
// checksum is only verified when the envelope is complete
func WithPartial(partial bool) DeserializeOptionFunc {
	return func(c *deserializeConfig) {
		c.partial = partial
	}
}
