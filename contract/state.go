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
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/tonsurvey/cell"
)

// LoanStatus is the lifecycle stage stored in the contract data
type LoanStatus uint8

const (
	LoanStatusInit LoanStatus = iota
	LoanStatusWaitingNft
	LoanStatusCollateralHeld
	LoanStatusActive
	LoanStatusRepaid
	LoanStatusLiquidation
)

var loanStatusLabels = map[LoanStatus]string{
	LoanStatusInit:           "Инициализация",
	LoanStatusWaitingNft:     "Ждём NFT",
	LoanStatusCollateralHeld: "Залог в контракте",
	LoanStatusActive:         "Кредит активен",
	LoanStatusRepaid:         "Возврат завершён",
	LoanStatusLiquidation:    "Ликвидация",
}

// Label returns the display label of the status, or false for unknown codes
func (s LoanStatus) Label() (string, bool) {
	ret, ok := loanStatusLabels[s]
	return ret, ok
}

func (s LoanStatus) String() string {
	if label, ok := s.Label(); ok {
		return label
	}
	return fmt.Sprintf("LoanStatus(%d)", uint8(s))
}

// State is the decoded persistent data of an NftProcessing contract
type State struct {
	NftCollectionAddress cell.MsgAddress `json:"nftCollectionAddress"`
	NftItemIndex         uint64          `json:"nftItemIndex,string"`
	Owner                cell.MsgAddress `json:"owner"`
	OriginalOwner        cell.MsgAddress `json:"originalOwner"`
	Lender               cell.MsgAddress `json:"lender"`
	Nft                  cell.MsgAddress `json:"nft"`
	LoanAmount           *big.Int        `json:"loanAmount"`
	ReceivedAll          *big.Int        `json:"receivedAll"`
	NftReceived          bool            `json:"nftReceived"`
	Status               LoanStatus      `json:"status"`
}

// DecodeStatus tells how much of the state could be decoded
type DecodeStatus int

const (
	// DecodeComplete means every field was decoded
	DecodeComplete DecodeStatus = iota
	// DecodePartial means some addresses could not be decoded and were left empty
	DecodePartial
	// DecodeFailed means the data did not match the layout and no state is available
	DecodeFailed
)

func (s DecodeStatus) String() string {
	switch s {
	case DecodeComplete:
		return "complete"
	case DecodePartial:
		return "partial"
	case DecodeFailed:
		return "failed"
	default:
		return fmt.Sprintf("DecodeStatus(%d)", int(s))
	}
}

// Diagnostic describes a field that could not be decoded
type Diagnostic struct {
	Field string
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Field, d.Err)
}

// DecodeResult carries the decoded state along with everything that went wrong on the way
type DecodeResult struct {
	State       *State
	Status      DecodeStatus
	Diagnostics []Diagnostic
}

type stateDecoder struct {
	field       string
	diagnostics []Diagnostic
}

// DecodeState reads the contract data cell. Decoding is best effort: bounds and layout errors
// never escape, they are reported through the result status and diagnostics instead
func DecodeState(data *cell.Cell) DecodeResult {
	if data == nil {
		return DecodeResult{
			Status:      DecodeFailed,
			Diagnostics: []Diagnostic{{Field: "data", Err: errors.New("no data cell")}},
		}
	}
	d := &stateDecoder{}
	state, err := d.decode(data.BeginParse())
	if err != nil {
		return DecodeResult{
			Status: DecodeFailed,
			Diagnostics: append(
				d.diagnostics,
				Diagnostic{Field: d.field, Err: err},
			),
		}
	}
	ret := DecodeResult{
		State:       state,
		Status:      DecodeComplete,
		Diagnostics: d.diagnostics,
	}
	if len(d.diagnostics) > 0 {
		ret.Status = DecodePartial
	}
	return ret
}

func (d *stateDecoder) decode(s *cell.Slice) (*State, error) {
	ret := &State{
		LoanAmount:  new(big.Int),
		ReceivedAll: new(big.Int),
	}
	var err error
	ret.NftCollectionAddress = d.maybeAddress(s, "nftCollectionAddress")
	d.field = "nftItemIndex"
	if ret.NftItemIndex, err = s.LoadUint(64); err != nil {
		return nil, err
	}
	// Item code, not decoded
	d.field = "nftCode"
	if _, err = s.LoadRef(); err != nil {
		return nil, err
	}
	ret.Owner = d.maybeAddress(s, "owner")
	ret.OriginalOwner = d.maybeAddress(s, "originalOwner")
	if s.RemainingRefs() == 0 {
		return ret, nil
	}
	d.field = "loan"
	loanCell, err := s.LoadRef()
	if err != nil {
		return nil, err
	}
	loan := loanCell.BeginParse()
	ret.Lender = d.maybeAddress(loan, "lender")
	ret.Nft = d.maybeAddress(loan, "nft")
	d.field = "loanAmount"
	if ret.LoanAmount, err = loan.LoadCoins(); err != nil {
		return nil, err
	}
	d.field = "receivedAll"
	if ret.ReceivedAll, err = loan.LoadCoins(); err != nil {
		return nil, err
	}
	d.field = "nftReceived"
	if ret.NftReceived, err = loan.LoadBit(); err != nil {
		return nil, err
	}
	d.field = "status"
	status, err := loan.LoadUint(8)
	if err != nil {
		return nil, err
	}
	ret.Status = LoanStatus(status)
	return ret, nil
}

// maybeAddress reads an address and records a diagnostic instead of failing
func (d *stateDecoder) maybeAddress(s *cell.Slice, field string) cell.MsgAddress {
	addr, err := s.LoadAddressAny()
	if err != nil {
		d.diagnostics = append(d.diagnostics, Diagnostic{Field: field, Err: err})
		return nil
	}
	return addr
}

// EncodeState builds a data cell with the layout read by DecodeState. The loan group is only
// written when withLoan is set
func EncodeState(state *State, code *cell.Cell, withLoan bool) (*cell.Cell, error) {
	if code == nil {
		code = cell.Empty()
	}
	b := cell.BeginCell()
	if err := b.StoreAddressMaybe(state.NftCollectionAddress); err != nil {
		return nil, err
	}
	if err := b.StoreUint(state.NftItemIndex, 64); err != nil {
		return nil, err
	}
	if err := b.StoreRef(code); err != nil {
		return nil, err
	}
	if err := b.StoreAddressMaybe(state.Owner); err != nil {
		return nil, err
	}
	if err := b.StoreAddressMaybe(state.OriginalOwner); err != nil {
		return nil, err
	}
	if withLoan {
		loan := cell.BeginCell()
		if err := loan.StoreAddressMaybe(state.Lender); err != nil {
			return nil, err
		}
		if err := loan.StoreAddressMaybe(state.Nft); err != nil {
			return nil, err
		}
		if err := loan.StoreCoins(state.LoanAmount); err != nil {
			return nil, err
		}
		if err := loan.StoreCoins(state.ReceivedAll); err != nil {
			return nil, err
		}
		if err := loan.StoreBit(state.NftReceived); err != nil {
			return nil, err
		}
		if err := loan.StoreUint(uint64(state.Status), 8); err != nil {
			return nil, err
		}
		loanCell, err := loan.EndCell()
		if err != nil {
			return nil, err
		}
		if err := b.StoreRef(loanCell); err != nil {
			return nil, err
		}
	}
	return b.EndCell()
}
