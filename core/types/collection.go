package types

// Collection groups the vouchers a merchant issues under one authority. A
// collection must exist before vouchers are minted into it; it carries the
// merchant scope every member voucher inherits.
type Collection struct {
	ID            [32]byte          `json:"id"`
	Name          string            `json:"name"`
	Merchant      string            `json:"merchantId"`
	Authority     [20]byte          `json:"authority"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     int64             `json:"createdAt"`
	SchemaVersion uint16            `json:"schemaVersion"`
	Version       uint64            `json:"version"`
}

// Clone returns a deep copy of the collection so callers can safely mutate
// the copy without affecting the stored instance.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Metadata != nil {
		clone.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// RecordKind implements the Record interface.
func (c *Collection) RecordKind() RecordKind { return KindCollection }

// RecordKey implements the Record interface.
func (c *Collection) RecordKey() [32]byte { return c.ID }

// RecordVersion implements the Record interface.
func (c *Collection) RecordVersion() uint64 { return c.Version }

// SetRecordVersion implements the Record interface.
func (c *Collection) SetRecordVersion(v uint64) { c.Version = v }

// RecordAuthority implements the Record interface.
func (c *Collection) RecordAuthority() [20]byte { return c.Authority }
