package types

// Schema versions for the serialized record payloads. Bumped whenever a
// record's wire shape changes so readers can migrate forward.
const (
	ProgramSchemaVersion    uint16 = 1
	PassSchemaVersion       uint16 = 1
	VoucherSchemaVersion    uint16 = 1
	CollectionSchemaVersion uint16 = 1
)

// RecordKind discriminates the serialized payload of a ledger record.
type RecordKind string

const (
	KindProgram    RecordKind = "program"
	KindPass       RecordKind = "pass"
	KindVoucher    RecordKind = "voucher"
	KindCollection RecordKind = "collection"
)

// Valid reports whether the kind names a known record payload.
func (k RecordKind) Valid() bool {
	switch k {
	case KindProgram, KindPass, KindVoucher, KindCollection:
		return true
	default:
		return false
	}
}

// Record is the contract every ledger-resident record satisfies. Records are
// addressed by a stable 32-byte key, guarded by a single update authority and
// carry a monotonically increasing version used for compare-and-swap writes.
type Record interface {
	RecordKind() RecordKind
	RecordKey() [32]byte
	RecordVersion() uint64
	SetRecordVersion(v uint64)
	RecordAuthority() [20]byte
}
