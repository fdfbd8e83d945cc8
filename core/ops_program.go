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
	"github.com/Axio-Lab/verxioprotocol-sub000/native/loyalty"
)

// CreateProgramConfig is the input for CreateProgram. The signer becomes the
// program's update authority.
type CreateProgramConfig struct {
	Name            string
	Tiers           []types.Tier
	PointsPerAction map[string]int64
	Metadata        map[string]string
	Signer          *crypto.PrivateKey
}

// CreateProgramResult carries the created program and the submission
// confirmation.
type CreateProgramResult struct {
	Program      *types.Program
	Confirmation *ledger.Confirmation
}

// CreateProgram validates the configuration and writes a new loyalty program
// record. Creation fails fast: any invalid field surfaces as a typed error
// and nothing is written.
func (p *Protocol) CreateProgram(ctx context.Context, cfg CreateProgramConfig) (*CreateProgramResult, error) {
	const op = "create_program"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	program, err := loyalty.NewProgram(loyalty.ProgramConfig{
		Name:            cfg.Name,
		Authority:       cfg.Signer.PubKey().Address().Array(),
		Tiers:           cfg.Tiers,
		PointsPerAction: cfg.PointsPerAction,
		Metadata:        cfg.Metadata,
	}, p.now())
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      program,
		ReadVersion: 0,
		Fee:         p.fee(fees.CategoryCreateProgram, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.ProgramCreated{ID: program.ID, Name: program.Name, Authority: program.Authority, TierCount: len(program.Tiers)})
	p.observe(op, "ok")
	p.log.Info("program created", "program", fmt.Sprintf("%x", program.ID), "name", program.Name)
	return &CreateProgramResult{Program: program, Confirmation: conf}, nil
}

// UpdateProgramTiersConfig is the input for UpdateProgramTiers.
type UpdateProgramTiersConfig struct {
	Program [32]byte
	Tiers   []types.Tier
	Signer  *crypto.PrivateKey
}

// UpdateProgramTiers replaces a program's tier table, preserving the leading
// base tier invariant.
func (p *Protocol) UpdateProgramTiers(ctx context.Context, cfg UpdateProgramTiersConfig) (*CreateProgramResult, error) {
	const op = "update_program_tiers"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	program, err := p.client.ProgramRecord(ctx, cfg.Program)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	next, err := loyalty.UpdateProgramTiers(program, cfg.Tiers)
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      next,
		ReadVersion: program.Version,
		Fee:         p.fee(fees.CategoryOperation, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.ProgramUpdated{ID: next.ID, Authority: next.Authority, Field: "tiers"})
	p.observe(op, "ok")
	return &CreateProgramResult{Program: next, Confirmation: conf}, nil
}

// UpdatePointsPerActionConfig is the input for UpdatePointsPerAction.
type UpdatePointsPerActionConfig struct {
	Program [32]byte
	Table   map[string]int64
	Signer  *crypto.PrivateKey
}

// UpdatePointsPerAction replaces a program's points-per-action table.
func (p *Protocol) UpdatePointsPerAction(ctx context.Context, cfg UpdatePointsPerActionConfig) (*CreateProgramResult, error) {
	const op = "update_points_per_action"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	program, err := p.client.ProgramRecord(ctx, cfg.Program)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	next, err := loyalty.UpdateProgramPointsTable(program, cfg.Table)
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      next,
		ReadVersion: program.Version,
		Fee:         p.fee(fees.CategoryOperation, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.ProgramUpdated{ID: next.ID, Authority: next.Authority, Field: "pointsPerAction"})
	p.observe(op, "ok")
	return &CreateProgramResult{Program: next, Confirmation: conf}, nil
}

// IssuePassConfig is the input for IssuePass.
type IssuePassConfig struct {
	Program [32]byte
	Owner   [20]byte
	Signer  *crypto.PrivateKey
}

// IssuePassResult carries the issued pass and the submission confirmation.
type IssuePassResult struct {
	Pass         *types.Pass
	Confirmation *ledger.Confirmation
}

// IssuePass creates the per-user pass record for a program, starting at the
// base tier with zero XP.
func (p *Protocol) IssuePass(ctx context.Context, cfg IssuePassConfig) (*IssuePassResult, error) {
	const op = "issue_pass"
	if cfg.Signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	program, err := p.client.ProgramRecord(ctx, cfg.Program)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	pass, err := loyalty.IssuePass(program, cfg.Owner, p.now())
	if err != nil {
		p.observe(op, "invalid")
		return nil, err
	}

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      pass,
		ReadVersion: 0,
		Fee:         p.fee(fees.CategoryInteraction, cfg.Signer),
		Signer:      cfg.Signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.PassIssued{ID: pass.ID, Program: pass.Program, Owner: pass.Owner, Tier: pass.CurrentTier})
	p.observe(op, "ok")
	return &IssuePassResult{Pass: pass, Confirmation: conf}, nil
}

func (p *Protocol) fee(category fees.Category, signer *crypto.PrivateKey) *fees.Instruction {
	instr := p.composer.Compose(category, signer.PubKey().Address().Array())
	return &instr
}
