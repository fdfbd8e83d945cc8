package core

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/events"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
	"github.com/Axio-Lab/verxioprotocol-sub000/crypto"
	"github.com/Axio-Lab/verxioprotocol-sub000/ledger"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/voucher"
)

// CreateVoucherCollectionConfig is the input for CreateVoucherCollection.
// The signer becomes the collection's update authority.
type CreateVoucherCollectionConfig struct {
	Name     string
	Merchant string
	Metadata map[string]string
	Signer   *crypto.PrivateKey
}

// CreateVoucherCollectionResult carries the created collection and the
// submission confirmation.
type CreateVoucherCollectionResult struct {
	Collection   *types.Collection
	Confirmation *ledger.Confirmation
}

// CreateVoucherCollection writes the collection record vouchers are minted
// into. Creation fails fast with a typed error; nothing is written on
// invalid input.
func (p *Protocol) CreateVoucherCollection(ctx context.Context, cfg CreateVoucherCollectionConfig) (*CreateVoucherCollectionResult, error) {
	const op = "create_voucher_collection"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	collection, err := p.vouchers.NewCollection(voucher.CollectionConfig{
		Name:      cfg.Name,
		Merchant:  cfg.Merchant,
		Authority: cfg.Signer.PubKey().Address().Array(),
		Metadata:  cfg.Metadata,
	})
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      collection,
		ReadVersion: 0,
		Fee:         p.fee(fees.CategoryCreateCollection, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.CollectionCreated{ID: collection.ID, Merchant: collection.Merchant, Name: collection.Name})
	p.observe(op, "ok")
	p.log.Info("voucher collection created", "collection", fmt.Sprintf("%x", collection.ID), "merchant", collection.Merchant)
	return &CreateVoucherCollectionResult{Collection: collection, Confirmation: conf}, nil
}

// MintVoucherConfig is the input for MintVoucher. The signer becomes the
// voucher's update authority.
type MintVoucherConfig struct {
	Collection   [32]byte
	Recipient    [20]byte
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
	Signer       *crypto.PrivateKey
}

// MintVoucherResult carries the minted voucher and the submission
// confirmation.
type MintVoucherResult struct {
	Voucher      *types.Voucher
	Confirmation *ledger.Confirmation
}

// MintVoucher validates the configuration and writes a new voucher record in
// the active state. The collection must already exist and the signer must be
// its authority; the voucher inherits the collection's merchant scope unless
// a matching merchant is given. Minting fails fast with a typed error;
// nothing is written on invalid input.
func (p *Protocol) MintVoucher(ctx context.Context, cfg MintVoucherConfig) (*MintVoucherResult, error) {
	const op = "mint_voucher"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	collection, err := p.client.CollectionRecord(ctx, cfg.Collection)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	if collection.Authority != cfg.Signer.PubKey().Address().Array() {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is not the collection authority", protoerr.ErrAuthority)
	}
	merchant := strings.TrimSpace(cfg.Merchant)
	switch {
	case merchant == "":
		merchant = collection.Merchant
	case merchant != collection.Merchant:
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: voucher merchant %q does not match collection merchant %q", protoerr.ErrConfiguration, merchant, collection.Merchant)
	}
	minted, err := p.vouchers.Mint(voucher.MintConfig{
		Collection:   cfg.Collection,
		Recipient:    cfg.Recipient,
		Authority:    cfg.Signer.PubKey().Address().Array(),
		Name:         cfg.Name,
		Kind:         cfg.Kind,
		Value:        cfg.Value,
		Description:  cfg.Description,
		ExpiresAt:    cfg.ExpiresAt,
		MaxUses:      cfg.MaxUses,
		Transferable: cfg.Transferable,
		Merchant:     merchant,
		Conditions:   cfg.Conditions,
		XPReward:     cfg.XPReward,
	})
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      minted,
		ReadVersion: 0,
		Fee:         p.fee(fees.CategoryOperation, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.VoucherMinted{ID: minted.ID, Merchant: minted.Merchant, Kind: minted.Kind, MaxUses: minted.MaxUses})
	p.observe(op, "ok")
	p.log.Info("voucher minted", "voucher", fmt.Sprintf("%x", minted.ID), "type", minted.Kind, "merchant", minted.Merchant)
	return &MintVoucherResult{Voucher: minted, Confirmation: conf}, nil
}

// ValidateVoucher runs the full conditions evaluation against the current
// record state without mutating anything.
func (p *Protocol) ValidateVoucher(ctx context.Context, id [32]byte, merchant string, rctx *voucher.RedemptionContext) (*voucher.Result, error) {
	v, err := p.client.VoucherRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	res := p.vouchers.Validate(v, merchant, rctx)
	return &res, nil
}

// RedeemVoucherConfig is the input for RedeemVoucher. Pass is optional; when
// set and the voucher carries an XP reward, the reward is gifted to that
// pass after the redemption confirms.
type RedeemVoucherConfig struct {
	Voucher  [32]byte
	Merchant string
	Context  *voucher.RedemptionContext
	Pass     [32]byte
	Signer   *crypto.PrivateKey
}

// RedeemVoucherResult is the accumulated outcome of a redemption. When
// Success is false Errors lists every violated rule and no confirmation is
// present.
type RedeemVoucherResult struct {
	voucher.Result
	Voucher         *types.Voucher
	RedemptionValue *big.Int
	Record          *types.RedemptionRecord
	XPGranted       int64
	Confirmation    *ledger.Confirmation
}

// RedeemVoucher consumes one use of a voucher. Business-rule violations are
// accumulated and returned in the result; only infrastructure failures
// (missing records, submission errors) surface as Go errors.
func (p *Protocol) RedeemVoucher(ctx context.Context, cfg RedeemVoucherConfig) (*RedeemVoucherResult, error) {
	const op = "redeem_voucher"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	v, err := p.client.VoucherRecord(ctx, cfg.Voucher)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	out := p.vouchers.Redeem(v, cfg.Merchant, cfg.Context)
	result := &RedeemVoucherResult{
		Result:          out.Result,
		RedemptionValue: out.RedemptionValue,
		Record:          out.Record,
	}
	if !out.Success {
		p.observe(op, "invalid")
		return result, nil
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      out.Voucher,
		ReadVersion: v.Version,
		Fee:         p.fee(fees.CategoryOperation, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	result.Voucher = out.Voucher
	result.Confirmation = conf

	if v.XPReward > 0 && cfg.Pass != ([32]byte{}) {
		granted, err := p.grantRedemptionXP(ctx, cfg.Pass, v.XPReward, cfg.Signer)
		if err != nil {
			// The redemption itself is confirmed; the bonus grant is
			// best-effort and surfaces as a warning.
			result.Warnings = append(result.Warnings, fmt.Sprintf("xp reward not granted: %s", err))
		} else {
			result.XPGranted = granted
		}
	}

	p.emit(events.VoucherRedeemed{
		ID:          v.ID,
		Merchant:    v.Merchant,
		Value:       out.RedemptionValue,
		CurrentUses: out.Voucher.CurrentUses,
		FullyUsed:   out.Voucher.Status == types.VoucherUsed,
	})
	p.observe(op, "ok")
	p.log.Info("voucher redeemed", "voucher", fmt.Sprintf("%x", v.ID), "value", out.RedemptionValue.String(), "uses", out.Voucher.CurrentUses)
	return result, nil
}

func (p *Protocol) grantRedemptionXP(ctx context.Context, passID [32]byte, points int64, signer *crypto.PrivateKey) (int64, error) {
	pass, program, err := p.fetchPassAndProgram(ctx, passID)
	if err != nil {
		return 0, err
	}
	res, err := p.points.Gift(program, pass, points, "voucher_redemption")
	if err != nil {
		return 0, err
	}
	if _, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      res.Pass,
		ReadVersion: pass.Version,
		Fee:         p.fee(fees.CategoryInteraction, signer),
		Signer:      signer,
	}); err != nil {
		return 0, err
	}
	p.emit(events.PointsGifted{Pass: passID, Reason: "voucher_redemption", Points: points, NewXP: res.Pass.XP, NewTier: res.NewTier})
	return points, nil
}

// VoucherOpResult is the accumulated outcome of cancel, extend and
// reduce-XP operations.
type VoucherOpResult struct {
	voucher.Result
	Voucher      *types.Voucher
	Confirmation *ledger.Confirmation
}

// CancelVoucher transitions a voucher into its terminal cancelled state.
func (p *Protocol) CancelVoucher(ctx context.Context, id [32]byte, signer *crypto.PrivateKey) (*VoucherOpResult, error) {
	const op = "cancel_voucher"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	v, err := p.client.VoucherRecord(ctx, id)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	out := p.vouchers.Cancel(v)
	result := &VoucherOpResult{Result: out.Result}
	if !out.Success {
		p.observe(op, "invalid")
		return result, nil
	}

	conf, err := p.submitVoucher(ctx, out.Voucher, v.Version, signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	result.Voucher = out.Voucher
	result.Confirmation = conf

	p.emit(events.VoucherCancelled{ID: v.ID, Merchant: v.Merchant})
	p.observe(op, "ok")
	return result, nil
}

// ExtendVoucherExpiry moves a voucher's expiry forward, reactivating an
// expired voucher when the new date is valid.
func (p *Protocol) ExtendVoucherExpiry(ctx context.Context, id [32]byte, newExpiry int64, signer *crypto.PrivateKey) (*VoucherOpResult, error) {
	const op = "extend_voucher_expiry"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	v, err := p.client.VoucherRecord(ctx, id)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	out := p.vouchers.ExtendExpiry(v, newExpiry)
	result := &VoucherOpResult{Result: out.Result}
	if !out.Success {
		p.observe(op, "invalid")
		return result, nil
	}

	conf, err := p.submitVoucher(ctx, out.Voucher, v.Version, signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	result.Voucher = out.Voucher
	result.Confirmation = conf

	p.emit(events.VoucherExpiryExtended{ID: v.ID, NewExpiry: newExpiry, Reactivated: out.Reactivated})
	p.observe(op, "ok")
	return result, nil
}

// ReduceVoucherXPReward lowers the bonus points a voucher grants on
// redemption.
func (p *Protocol) ReduceVoucherXPReward(ctx context.Context, id [32]byte, xpToReduce int64, signer *crypto.PrivateKey) (*VoucherOpResult, error) {
	const op = "reduce_voucher_xp_reward"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	v, err := p.client.VoucherRecord(ctx, id)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	out := p.vouchers.ReduceXPReward(v, xpToReduce)
	result := &VoucherOpResult{Result: out.Result}
	if !out.Success {
		p.observe(op, "invalid")
		return result, nil
	}

	conf, err := p.submitVoucher(ctx, out.Voucher, v.Version, signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	result.Voucher = out.Voucher
	result.Confirmation = conf

	p.emit(events.VoucherXPReduced{ID: v.ID, Reduced: xpToReduce, Remaining: out.Remaining})
	p.observe(op, "ok")
	return result, nil
}

func (p *Protocol) submitVoucher(ctx context.Context, v *types.Voucher, readVersion uint64, signer *crypto.PrivateKey) (*ledger.Confirmation, error) {
	return p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      v,
		ReadVersion: readVersion,
		Fee:         p.fee(fees.CategoryOperation, signer),
		Signer:      signer,
	})
}
