package messaging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

var (
	ErrEmptyContent = errors.New("messaging: message content must not be empty")
)

// Center produces the next-state history for per-pass messages and
// per-program broadcasts. Both share one shape: append-only entries with a
// per-entry read flag, statistics derived at query time.
type Center struct {
	nowFn func() int64
	idFn  func() string
}

// NewCenter creates a message center using the wall clock and random ids.
func NewCenter() *Center {
	return &Center{
		nowFn: func() int64 { return time.Now().Unix() },
		idFn:  uuid.NewString,
	}
}

// SetNowFunc overrides the time source, for deterministic tests.
func (c *Center) SetNowFunc(now func() int64) {
	if now == nil {
		c.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	c.nowFn = now
}

// SetIDFunc overrides the id generator, for deterministic tests.
func (c *Center) SetIDFunc(id func() string) {
	if id == nil {
		c.idFn = uuid.NewString
		return
	}
	c.idFn = id
}

// Send appends a new unread message to the history and returns the updated
// history along with the entry that was added. The input slice is not
// mutated.
func (c *Center) Send(history []types.Message, content, sender string) ([]types.Message, *types.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, ErrEmptyContent
	}
	msg := types.Message{
		ID:        c.idFn(),
		Content:   content,
		Sender:    sender,
		Timestamp: c.nowFn(),
		Read:      false,
	}
	next := make([]types.Message, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, msg)
	return next, &msg, nil
}

// MarkRead returns a copy of the history with exactly the matching entry's
// read flag set. Order and every other entry are untouched. An unknown id is
// an error.
func (c *Center) MarkRead(history []types.Message, id string) ([]types.Message, error) {
	found := false
	next := make([]types.Message, 0, len(history))
	for _, msg := range history {
		if msg.ID == id {
			msg.Read = true
			found = true
		}
		next = append(next, msg)
	}
	if !found {
		return nil, fmt.Errorf("messaging: message %s not found", id)
	}
	return next, nil
}

// Stats summarises a message history. The counts are always derived from the
// history itself, never stored separately.
type Stats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

// Summarize derives read/unread statistics for the history.
func Summarize(history []types.Message) Stats {
	stats := Stats{Total: len(history)}
	for _, msg := range history {
		if msg.Read {
			stats.Read++
		} else {
			stats.Unread++
		}
	}
	return stats
}
