package voucher

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// MintConfig is the caller-supplied definition for a new voucher. Unlike the
// lifecycle operations, minting fails fast: the first missing or invalid
// field is reported as a typed error and no record is produced.
type MintConfig struct {
	Collection   [32]byte
	Recipient    [20]byte
	Authority    [20]byte
	Name         string
	Kind         string
	Value        *big.Int
	Description  string
	ExpiresAt    int64
	MaxUses      uint32
	Transferable bool
	Merchant     string
	Conditions   []types.Condition
	XPReward     int64
}

// Mint validates the configuration and builds the initial voucher record in
// the active state with a zero usage counter. The identifier is the
// keccak256 hash of the collection, the recipient, the voucher name and the
// mint timestamp.
func (e *Engine) Mint(cfg MintConfig) (*types.Voucher, error) {
	if cfg.Collection == ([32]byte{}) {
		return nil, fmt.Errorf("%w: collection address is required", protoerr.ErrConfiguration)
	}
	if cfg.Recipient == ([20]byte{}) {
		return nil, fmt.Errorf("%w: recipient is required", protoerr.ErrConfiguration)
	}
	if cfg.Authority == ([20]byte{}) {
		return nil, fmt.Errorf("%w: update authority is required", protoerr.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("%w: voucher name is required", protoerr.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.Kind) == "" {
		return nil, fmt.Errorf("%w: voucher type is required", protoerr.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.Merchant) == "" {
		return nil, fmt.Errorf("%w: merchant id is required", protoerr.ErrConfiguration)
	}
	if cfg.MaxUses == 0 {
		return nil, fmt.Errorf("%w: maxUses must be at least 1", protoerr.ErrConfiguration)
	}
	now := e.now()
	if cfg.ExpiresAt <= now {
		return nil, fmt.Errorf("%w: expiry date must be in the future", protoerr.ErrConfiguration)
	}
	if cfg.XPReward < 0 {
		return nil, fmt.Errorf("%w: xp reward must not be negative", protoerr.ErrConfiguration)
	}
	for _, cond := range cfg.Conditions {
		switch cond.Type {
		case types.ConditionMinimumPurchase, types.ConditionSpecificItems,
			types.ConditionTimeRestriction, types.ConditionUserTier:
		default:
			return nil, fmt.Errorf("%w: unknown condition type %q", protoerr.ErrConfiguration, cond.Type)
		}
	}

	v := &types.Voucher{
		ID:            voucherID(cfg.Collection, cfg.Recipient, cfg.Name, now),
		Collection:    cfg.Collection,
		Owner:         cfg.Recipient,
		Authority:     cfg.Authority,
		Merchant:      cfg.Merchant,
		Kind:          cfg.Kind,
		Value:         cfg.Value,
		Description:   cfg.Description,
		Status:        types.VoucherActive,
		IssuedAt:      now,
		ExpiresAt:     cfg.ExpiresAt,
		MaxUses:       cfg.MaxUses,
		CurrentUses:   0,
		Transferable:  cfg.Transferable,
		XPReward:      cfg.XPReward,
		Conditions:    cfg.Conditions,
		SchemaVersion: types.VoucherSchemaVersion,
	}
	sanitized, err := types.SanitizeVoucher(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", protoerr.ErrConfiguration, err)
	}
	return sanitized, nil
}

func voucherID(collection [32]byte, recipient [20]byte, name string, now int64) [32]byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now))
	return [32]byte(ethcrypto.Keccak256Hash(collection[:], recipient[:], []byte(name), ts[:]))
}
