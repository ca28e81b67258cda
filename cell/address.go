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

package cell

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	AddressHashSize = 32

	addressTagNone     = 0b00
	addressTagExternal = 0b01
	addressTagStd      = 0b10
	addressTagVar      = 0b11

	addressExternalLenBits = 9

	friendlyTagBounceable    = 0x11
	friendlyTagNonBounceable = 0x51
	friendlyFlagTestOnly     = 0x80
	friendlyAddressSize      = 36
)

// MsgAddress is any address that can appear in a cell. A nil MsgAddress is the absent
// address (addr_none)
type MsgAddress interface {
	String() string
	isMsgAddress()
}

// Address is an internal (addr_std) address
type Address struct {
	Workchain int8
	Hash      [AddressHashSize]byte
}

func (Address) isMsgAddress() {}

// NewAddress returns an internal address from its parts
func NewAddress(workchain int8, hash []byte) (Address, error) {
	if len(hash) != AddressHashSize {
		return Address{}, fmt.Errorf("invalid address hash length: %d", len(hash))
	}
	a := Address{Workchain: workchain}
	copy(a.Hash[:], hash)
	return a, nil
}

// FriendlyOptions controls the user-friendly address rendering
type FriendlyOptions struct {
	NonBounceable bool
	TestOnly      bool
	// StdEncoding selects the standard base64 alphabet instead of the URL-safe one
	StdEncoding bool
}

// String returns the bounceable, URL-safe user-friendly form
func (a Address) String() string {
	return a.Friendly(FriendlyOptions{})
}

// Raw returns the workchain:hex form
func (a Address) Raw() string {
	return fmt.Sprintf("%d:%s", a.Workchain, hex.EncodeToString(a.Hash[:]))
}

func (a Address) Friendly(opts FriendlyOptions) string {
	buf := make([]byte, friendlyAddressSize)
	buf[0] = friendlyTagBounceable
	if opts.NonBounceable {
		buf[0] = friendlyTagNonBounceable
	}
	if opts.TestOnly {
		buf[0] |= friendlyFlagTestOnly
	}
	buf[1] = byte(a.Workchain)
	copy(buf[2:34], a.Hash[:])
	binary.BigEndian.PutUint16(buf[34:], crc16(buf[:34]))
	if opts.StdEncoding {
		return base64.StdEncoding.EncodeToString(buf)
	}
	return base64.URLEncoding.EncodeToString(buf)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// ParseAddress accepts either the raw workchain:hex form or the 48 character user-friendly
// form in either base64 alphabet
func ParseAddress(addr string) (Address, error) {
	if wc, hashHex, ok := strings.Cut(addr, ":"); ok {
		workchain, err := strconv.ParseInt(wc, 10, 8)
		if err != nil {
			return Address{}, fmt.Errorf("invalid workchain %q: %w", wc, err)
		}
		hashBytes, err := hex.DecodeString(hashHex)
		if err != nil {
			return Address{}, fmt.Errorf("invalid address hash: %w", err)
		}
		return NewAddress(int8(workchain), hashBytes)
	}
	if len(addr) != 48 {
		return Address{}, fmt.Errorf("invalid address length: %d", len(addr))
	}
	var decoded []byte
	var err error
	if strings.ContainsAny(addr, "-_") {
		decoded, err = base64.URLEncoding.DecodeString(addr)
	} else {
		decoded, err = base64.StdEncoding.DecodeString(addr)
	}
	if err != nil {
		return Address{}, fmt.Errorf("invalid address encoding: %w", err)
	}
	if len(decoded) != friendlyAddressSize {
		return Address{}, errors.New("invalid friendly address size")
	}
	tag := decoded[0] &^ friendlyFlagTestOnly
	if tag != friendlyTagBounceable && tag != friendlyTagNonBounceable {
		return Address{}, fmt.Errorf("unknown address tag: 0x%02x", decoded[0])
	}
	if crc16(decoded[:34]) != binary.BigEndian.Uint16(decoded[34:]) {
		return Address{}, errors.New("address checksum mismatch")
	}
	return NewAddress(int8(decoded[1]), decoded[2:34])
}

// ExternalAddress is an addr_extern value of arbitrary bit length
type ExternalAddress struct {
	BitLen int
	Data   []byte
}

func (ExternalAddress) isMsgAddress() {}

func (e ExternalAddress) String() string {
	return fmt.Sprintf("External<%d:%s>", e.BitLen, hex.EncodeToString(e.Data))
}

func (e ExternalAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// crc16 is CRC-16/XMODEM as used by the user-friendly address checksum
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
