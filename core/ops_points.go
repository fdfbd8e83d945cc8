package core

import (
	"context"
	"fmt"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/events"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
	"github.com/Axio-Lab/verxioprotocol-sub000/crypto"
	"github.com/Axio-Lab/verxioprotocol-sub000/ledger"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
)

// AwardPointsConfig is the input for AwardPoints. Multiplier values below 1
// are treated as 1.
type AwardPointsConfig struct {
	Pass       [32]byte
	Action     string
	Multiplier int64
	Signer     *crypto.PrivateKey
}

// PointsOpResult carries the next pass state, the points moved and the tier
// movement for any of the points operations.
type PointsOpResult struct {
	Pass         *types.Pass
	Points       int64
	PreviousTier string
	NewTier      string
	TierChanged  bool
	Confirmation *ledger.Confirmation
}

// AwardPoints credits a pass according to the program's points-per-action
// table. Configuration problems (unknown action, zero-valued table) fail
// fast before anything is written.
func (p *Protocol) AwardPoints(ctx context.Context, cfg AwardPointsConfig) (*PointsOpResult, error) {
	const op = "award_points"
	pass, program, err := p.fetchPassAndProgram(ctx, cfg.Pass)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	res, err := p.points.Award(program, pass, cfg.Action, cfg.Multiplier)
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.submitPass(ctx, res.Pass, pass.Version, cfg.Signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.PointsAwarded{Pass: pass.ID, Action: cfg.Action, Points: res.PointsAwarded, NewXP: res.Pass.XP, NewTier: res.NewTier})
	if res.TierChanged {
		p.emit(events.PassTierChanged{Pass: pass.ID, PreviousTier: res.PreviousTier, NewTier: res.NewTier, XP: res.Pass.XP})
	}
	p.observe(op, "ok")
	p.log.Info("points awarded", "pass", fmt.Sprintf("%x", pass.ID), "action", cfg.Action, "points", res.PointsAwarded, "tier", res.NewTier)
	return &PointsOpResult{
		Pass:         res.Pass,
		Points:       res.PointsAwarded,
		PreviousTier: res.PreviousTier,
		NewTier:      res.NewTier,
		TierChanged:  res.TierChanged,
		Confirmation: conf,
	}, nil
}

// RevokePointsConfig is the input for RevokePoints.
type RevokePointsConfig struct {
	Pass   [32]byte
	Points int64
	Signer *crypto.PrivateKey
}

// RevokePoints removes points from a pass. The balance never drops below
// zero; the result reports the amount actually removed.
func (p *Protocol) RevokePoints(ctx context.Context, cfg RevokePointsConfig) (*PointsOpResult, error) {
	const op = "revoke_points"
	pass, program, err := p.fetchPassAndProgram(ctx, cfg.Pass)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	res, err := p.points.Revoke(program, pass, cfg.Points)
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.submitPass(ctx, res.Pass, pass.Version, cfg.Signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.PointsRevoked{Pass: pass.ID, Points: res.PointsRevoked, NewXP: res.Pass.XP, NewTier: res.NewTier})
	if res.TierChanged {
		p.emit(events.PassTierChanged{Pass: pass.ID, PreviousTier: res.PreviousTier, NewTier: res.NewTier, XP: res.Pass.XP})
	}
	p.observe(op, "ok")
	return &PointsOpResult{
		Pass:         res.Pass,
		Points:       res.PointsRevoked,
		PreviousTier: res.PreviousTier,
		NewTier:      res.NewTier,
		TierChanged:  res.TierChanged,
		Confirmation: conf,
	}, nil
}

// GiftPointsConfig is the input for GiftPoints.
type GiftPointsConfig struct {
	Pass   [32]byte
	Points int64
	Reason string
	Signer *crypto.PrivateKey
}

// GiftPoints credits points outside the points-per-action table.
func (p *Protocol) GiftPoints(ctx context.Context, cfg GiftPointsConfig) (*PointsOpResult, error) {
	const op = "gift_points"
	pass, program, err := p.fetchPassAndProgram(ctx, cfg.Pass)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	res, err := p.points.Gift(program, pass, cfg.Points, cfg.Reason)
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.submitPass(ctx, res.Pass, pass.Version, cfg.Signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.PointsGifted{Pass: pass.ID, Reason: cfg.Reason, Points: res.PointsGifted, NewXP: res.Pass.XP, NewTier: res.NewTier})
	if res.TierChanged {
		p.emit(events.PassTierChanged{Pass: pass.ID, PreviousTier: res.PreviousTier, NewTier: res.NewTier, XP: res.Pass.XP})
	}
	p.observe(op, "ok")
	return &PointsOpResult{
		Pass:         res.Pass,
		Points:       res.PointsGifted,
		PreviousTier: res.PreviousTier,
		NewTier:      res.NewTier,
		TierChanged:  res.TierChanged,
		Confirmation: conf,
	}, nil
}

func (p *Protocol) fetchPassAndProgram(ctx context.Context, passID [32]byte) (*types.Pass, *types.Program, error) {
	pass, err := p.client.PassRecord(ctx, passID)
	if err != nil {
		return nil, nil, err
	}
	program, err := p.client.ProgramRecord(ctx, pass.Program)
	if err != nil {
		return nil, nil, err
	}
	return pass, program, nil
}

func (p *Protocol) submitPass(ctx context.Context, pass *types.Pass, readVersion uint64, signer *crypto.PrivateKey) (*ledger.Confirmation, error) {
	if signer == nil {
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	return p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      pass,
		ReadVersion: readVersion,
		Fee:         p.fee(fees.CategoryOperation, signer),
		Signer:      signer,
	})
}
