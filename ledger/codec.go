package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

// recordEnvelope is the serialized form of a ledger record: a kind tag, the
// schema version of the payload and the record version used for
// compare-and-swap, wrapping the typed payload. Records are serialized only
// at this write boundary; everything above works on typed structs.
type recordEnvelope struct {
	Kind          types.RecordKind `json:"kind"`
	SchemaVersion uint16           `json:"schemaVersion"`
	Version       uint64           `json:"version"`
	Payload       json.RawMessage  `json:"payload"`
}

func recordKey(id [32]byte) []byte {
	return []byte("record/" + hex.EncodeToString(id[:]))
}

func feeMeterKey(category string) []byte {
	return []byte("fees/" + category)
}

func encodeRecord(record types.Record, version uint64) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", record.RecordKind(), err)
	}
	env := recordEnvelope{
		Kind:          record.RecordKind(),
		SchemaVersion: schemaVersionFor(record),
		Version:       version,
		Payload:       payload,
	}
	return json.Marshal(env)
}

func decodeEnvelope(raw []byte) (*recordEnvelope, error) {
	env := &recordEnvelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("unmarshal record envelope: %w", err)
	}
	if !env.Kind.Valid() {
		return nil, fmt.Errorf("unknown record kind %q", env.Kind)
	}
	return env, nil
}

func decodePayload(env *recordEnvelope, want types.RecordKind, out interface{}) error {
	if env.Kind != want {
		return fmt.Errorf("record is a %s, not a %s", env.Kind, want)
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", want, err)
	}
	return nil
}

func schemaVersionFor(record types.Record) uint16 {
	switch record.RecordKind() {
	case types.KindProgram:
		return types.ProgramSchemaVersion
	case types.KindPass:
		return types.PassSchemaVersion
	case types.KindVoucher:
		return types.VoucherSchemaVersion
	case types.KindCollection:
		return types.CollectionSchemaVersion
	default:
		return 0
	}
}
