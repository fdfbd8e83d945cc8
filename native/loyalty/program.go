package loyalty

import (
	"encoding/binary"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// ProgramConfig is the caller-supplied definition for a new loyalty program.
type ProgramConfig struct {
	Name            string
	Authority       [20]byte
	Tiers           []types.Tier
	PointsPerAction map[string]int64
	Metadata        map[string]string
}

// NewProgram validates the configuration and builds the initial program
// record. The identifier is the keccak256 hash of the authority, the program
// name and the creation timestamp, giving deterministic IDs without a
// separate nonce store.
func NewProgram(cfg ProgramConfig, now int64) (*types.Program, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: program name is required", protoerr.ErrConfiguration)
	}
	if isZeroAddress(cfg.Authority) {
		return nil, fmt.Errorf("%w: program authority is required", protoerr.ErrConfiguration)
	}
	tiers := cfg.Tiers
	if len(tiers) == 0 {
		tiers = []types.Tier{{Name: types.BaseTierName, XPRequired: 0}}
	}
	program := &types.Program{
		ID:              programID(cfg.Authority, name, now),
		Name:            name,
		Authority:       cfg.Authority,
		Tiers:           tiers,
		PointsPerAction: cfg.PointsPerAction,
		Metadata:        cfg.Metadata,
		CreatedAt:       now,
		SchemaVersion:   types.ProgramSchemaVersion,
	}
	sanitized, err := types.SanitizeProgram(program)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", protoerr.ErrConfiguration, err)
	}
	return sanitized, nil
}

// UpdateProgramTiers replaces the program's tier table. The base tier
// invariant holds across updates: the first entry keeps XPRequired 0 and the
// table passes full validation before the next state is produced.
func UpdateProgramTiers(program *types.Program, tiers []types.Tier) (*types.Program, error) {
	if program == nil {
		return nil, ErrNilProgram
	}
	if err := types.ValidateTierTable(tiers); err != nil {
		return nil, fmt.Errorf("%w: %s", protoerr.ErrConfiguration, err)
	}
	next := program.Clone()
	next.Tiers = make([]types.Tier, 0, len(tiers))
	for _, tier := range tiers {
		next.Tiers = append(next.Tiers, tier.Clone())
	}
	return next, nil
}

// UpdateProgramPointsTable replaces the program's points-per-action table.
func UpdateProgramPointsTable(program *types.Program, table map[string]int64) (*types.Program, error) {
	if program == nil {
		return nil, ErrNilProgram
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: %w", protoerr.ErrConfiguration, ErrNoPointsTable)
	}
	next := program.Clone()
	next.PointsPerAction = make(map[string]int64, len(table))
	for action, points := range table {
		if strings.TrimSpace(action) == "" {
			return nil, fmt.Errorf("%w: points table contains an unnamed action", protoerr.ErrConfiguration)
		}
		if points < 0 {
			return nil, fmt.Errorf("%w: points for action %q must not be negative", protoerr.ErrConfiguration, action)
		}
		next.PointsPerAction[action] = points
	}
	return next, nil
}

// IssuePass builds the initial pass record for an end user: zero XP, the
// program's base tier and the base tier's rewards snapshot.
func IssuePass(program *types.Program, owner [20]byte, now int64) (*types.Pass, error) {
	if program == nil {
		return nil, ErrNilProgram
	}
	if isZeroAddress(owner) {
		return nil, fmt.Errorf("%w: pass owner is required", protoerr.ErrConfiguration)
	}
	base := program.BaseTier()
	return &types.Pass{
		ID:            passID(program.ID, owner, now),
		Program:       program.ID,
		Owner:         owner,
		Authority:     program.Authority,
		XP:            0,
		CurrentTier:   base.Name,
		TierUpdatedAt: now,
		Rewards:       append([]string(nil), base.Rewards...),
		IssuedAt:      now,
		SchemaVersion: types.PassSchemaVersion,
	}, nil
}

func programID(authority [20]byte, name string, now int64) [32]byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now))
	return [32]byte(ethcrypto.Keccak256Hash(authority[:], []byte(name), ts[:]))
}

func passID(program [32]byte, owner [20]byte, now int64) [32]byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now))
	return [32]byte(ethcrypto.Keccak256Hash(program[:], owner[:], ts[:]))
}

func isZeroAddress(addr [20]byte) bool {
	return addr == [20]byte{}
}
