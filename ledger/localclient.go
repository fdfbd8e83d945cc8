package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/time/rate"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
	"github.com/Axio-Lab/verxioprotocol-sub000/observability"
	"github.com/Axio-Lab/verxioprotocol-sub000/storage"
)

// LocalClient is a store-backed implementation of the ledger client
// contract. It enforces the same rules a remote ledger would: the signer
// must be the record's update authority, writes carry the version they were
// computed against and stale versions are rejected rather than silently
// overwriting newer state.
type LocalClient struct {
	db      storage.Database
	limiter *rate.Limiter
	metrics *observability.OperationMetrics

	// mu serializes the version check and the write it guards. Without it
	// two submitters that read the same version could both pass the
	// compare-and-swap check and overwrite each other.
	mu sync.Mutex
}

// NewLocalClient creates a client over the given key-value store. ratePerSec
// and burst throttle submissions; non-positive values disable the throttle.
func NewLocalClient(db storage.Database, ratePerSec, burst int) *LocalClient {
	var limiter *rate.Limiter
	if ratePerSec > 0 && burst > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return &LocalClient{
		db:      db,
		limiter: limiter,
	}
}

// SetMetrics attaches the operation metrics registry. Nil disables
// instrumentation.
func (c *LocalClient) SetMetrics(m *observability.OperationMetrics) { c.metrics = m }

// ProgramRecord implements RecordStore.
func (c *LocalClient) ProgramRecord(ctx context.Context, id [32]byte) (*types.Program, error) {
	env, err := c.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	program := &types.Program{}
	if err := decodePayload(env, types.KindProgram, program); err != nil {
		return nil, err
	}
	program.Version = env.Version
	return program, nil
}

// PassRecord implements RecordStore.
func (c *LocalClient) PassRecord(ctx context.Context, id [32]byte) (*types.Pass, error) {
	env, err := c.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	pass := &types.Pass{}
	if err := decodePayload(env, types.KindPass, pass); err != nil {
		return nil, err
	}
	pass.Version = env.Version
	return pass, nil
}

// VoucherRecord implements RecordStore.
func (c *LocalClient) VoucherRecord(ctx context.Context, id [32]byte) (*types.Voucher, error) {
	env, err := c.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	voucher := &types.Voucher{}
	if err := decodePayload(env, types.KindVoucher, voucher); err != nil {
		return nil, err
	}
	voucher.Version = env.Version
	return voucher, nil
}

// CollectionRecord implements RecordStore.
func (c *LocalClient) CollectionRecord(ctx context.Context, id [32]byte) (*types.Collection, error) {
	env, err := c.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	collection := &types.Collection{}
	if err := decodePayload(env, types.KindCollection, collection); err != nil {
		return nil, err
	}
	collection.Version = env.Version
	return collection, nil
}

func (c *LocalClient) fetch(ctx context.Context, id [32]byte) (*recordEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := c.db.Get(recordKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %x", protoerr.ErrNotFound, id)
		}
		return nil, err
	}
	return decodeEnvelope(raw)
}

// Submit validates, signs and commits a write batch. On success the record
// is stamped with the committed version and the confirmation identifier is
// the keccak256 hash of the batch digest and its signature.
func (c *LocalClient) Submit(ctx context.Context, batch *WriteBatch) (*Confirmation, error) {
	start := time.Now()
	conf, err := c.submit(ctx, batch)
	if c.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if errors.Is(err, protoerr.ErrVersionConflict) && batch != nil && batch.Record != nil {
				c.metrics.ObserveConflict(string(batch.Record.RecordKind()))
			}
		}
		c.metrics.ObserveSubmit(outcome, time.Since(start))
	}
	return conf, err
}

func (c *LocalClient) submit(ctx context.Context, batch *WriteBatch) (*Confirmation, error) {
	if batch == nil || batch.Record == nil {
		return nil, fmt.Errorf("%w: empty write batch", protoerr.ErrSubmission)
	}
	if batch.Signer == nil {
		return nil, fmt.Errorf("%w: write batch has no signer", protoerr.ErrSubmission)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s", protoerr.ErrSubmission, err)
		}
	}

	record := batch.Record
	if signerAddr := batch.Signer.PubKey().Address().Array(); signerAddr != record.RecordAuthority() {
		return nil, fmt.Errorf("%w: signer is not the record's update authority", protoerr.ErrAuthority)
	}

	// The fetch-compare-put below must be atomic: the check is worthless if
	// another submitter can commit between the read and the write.
	c.mu.Lock()
	defer c.mu.Unlock()

	key := recordKey(record.RecordKey())
	storedVersion := uint64(0)
	if raw, err := c.db.Get(key); err == nil {
		env, err := decodeEnvelope(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", protoerr.ErrSubmission, err)
		}
		storedVersion = env.Version
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", protoerr.ErrSubmission, err)
	}
	if batch.ReadVersion != storedVersion {
		return nil, fmt.Errorf("%w: read version %d, stored version %d", protoerr.ErrVersionConflict, batch.ReadVersion, storedVersion)
	}

	nextVersion := storedVersion + 1
	encoded, err := encodeRecord(record, nextVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", protoerr.ErrSubmission, err)
	}

	digestParts := [][]byte{key, encoded}
	if batch.Fee != nil && batch.Fee.Amount != nil {
		digestParts = append(digestParts, batch.Fee.Payer[:], batch.Fee.Treasury[:], batch.Fee.Amount.Bytes(), []byte(batch.Fee.Category))
	}
	digest := ethcrypto.Keccak256(digestParts...)
	sig, err := batch.Signer.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: sign batch: %s", protoerr.ErrSubmission, err)
	}

	if err := c.db.Put(key, encoded); err != nil {
		return nil, fmt.Errorf("%w: %s", protoerr.ErrSubmission, err)
	}
	if batch.Fee != nil {
		if err := c.accrueFee(batch.Fee.Category, batch.Fee.Amount); err != nil {
			return nil, fmt.Errorf("%w: %s", protoerr.ErrSubmission, err)
		}
	}

	// The caller's record only learns the new version once the write is
	// durable. A failed submission leaves it at the version it read.
	record.SetRecordVersion(nextVersion)

	return &Confirmation{
		ID:        [32]byte(ethcrypto.Keccak256Hash(digest, sig)),
		Signature: sig,
		Version:   nextVersion,
	}, nil
}

// accrueFee advances the per-category fee meter. The meter is accounting
// only; fee composition never gates a business result.
func (c *LocalClient) accrueFee(category fees.Category, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	key := feeMeterKey(string(category))
	total := big.NewInt(0)
	if raw, err := c.db.Get(key); err == nil {
		total.SetBytes(raw)
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}
	total.Add(total, amount)
	return c.db.Put(key, total.Bytes())
}

// FeeTotal reports the accumulated fees collected for a category.
func (c *LocalClient) FeeTotal(category string) (*big.Int, error) {
	raw, err := c.db.Get(feeMeterKey(category))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}
