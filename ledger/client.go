package ledger

import (
	"context"
	"encoding/hex"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
	"github.com/Axio-Lab/verxioprotocol-sub000/crypto"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
)

// RecordStore is the read side of the ledger: fetch the current state of a
// record by its stable identifier. Absent records surface the shared
// not-found error.
type RecordStore interface {
	ProgramRecord(ctx context.Context, id [32]byte) (*types.Program, error)
	PassRecord(ctx context.Context, id [32]byte) (*types.Pass, error)
	VoucherRecord(ctx context.Context, id [32]byte) (*types.Voucher, error)
	CollectionRecord(ctx context.Context, id [32]byte) (*types.Collection, error)
}

// WriteBatch is one atomic ledger submission: a single record state update,
// the protocol fee transfer decorating it and the signer entitled to rewrite
// the record. ReadVersion is the version the next state was computed
// against; the client rejects the write if the stored record has advanced.
type WriteBatch struct {
	Record      types.Record
	ReadVersion uint64
	Fee         *fees.Instruction
	Signer      *crypto.PrivateKey
}

// Confirmation identifies a finalised submission.
type Confirmation struct {
	ID        [32]byte
	Signature []byte
	Version   uint64
}

// Hex returns the confirmation identifier as a hex string.
func (c *Confirmation) Hex() string {
	if c == nil {
		return ""
	}
	return hex.EncodeToString(c.ID[:])
}

// Client signs, submits and confirms atomic write batches against the
// ledger. Implementations own finality; this engine has no independent
// timeout or retry policy.
type Client interface {
	RecordStore
	Submit(ctx context.Context, batch *WriteBatch) (*Confirmation, error)
}
