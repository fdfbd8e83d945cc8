package voucher

import (
	"encoding/binary"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	protoerr "github.com/Axio-Lab/verxioprotocol-sub000/core/errors"
	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// CollectionConfig is the caller-supplied definition for a new voucher
// collection.
type CollectionConfig struct {
	Name      string
	Merchant  string
	Authority [20]byte
	Metadata  map[string]string
}

// NewCollection validates the configuration and builds the collection
// record. Like minting, collection creation fails fast: the first invalid
// field is reported as a typed error.
func (e *Engine) NewCollection(cfg CollectionConfig) (*types.Collection, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", protoerr.ErrConfiguration)
	}
	merchant := strings.TrimSpace(cfg.Merchant)
	if merchant == "" {
		return nil, fmt.Errorf("%w: merchant id is required", protoerr.ErrConfiguration)
	}
	if cfg.Authority == ([20]byte{}) {
		return nil, fmt.Errorf("%w: update authority is required", protoerr.ErrConfiguration)
	}
	now := e.now()
	return &types.Collection{
		ID:            collectionID(cfg.Authority, name, merchant, now),
		Name:          name,
		Merchant:      merchant,
		Authority:     cfg.Authority,
		Metadata:      cfg.Metadata,
		CreatedAt:     now,
		SchemaVersion: types.CollectionSchemaVersion,
	}, nil
}

func collectionID(authority [20]byte, name, merchant string, now int64) [32]byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now))
	return [32]byte(ethcrypto.Keccak256Hash(authority[:], []byte(name), []byte(merchant), ts[:]))
}
