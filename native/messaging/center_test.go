package messaging

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/types"
)

const testNow int64 = 1_700_000_000

func testCenter() *Center {
	c := NewCenter()
	c.SetNowFunc(func() int64 { return testNow })
	seq := 0
	c.SetIDFunc(func() string {
		seq++
		return fmt.Sprintf("msg-%d", seq)
	})
	return c
}

func TestSend(t *testing.T) {
	c := testCenter()

	history, msg, err := c.Send(nil, "welcome aboard", "program-admin")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID != "msg-1" || msg.Timestamp != testNow || msg.Read {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(history) != 1 || history[0].ID != "msg-1" {
		t.Fatalf("unexpected history: %+v", history)
	}

	history2, msg2, err := c.Send(history, "second", "program-admin")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(history2) != 2 || msg2.ID != "msg-2" {
		t.Fatalf("unexpected history: %+v", history2)
	}
	// Input slice untouched.
	if len(history) != 1 {
		t.Fatalf("input history mutated")
	}
}

func TestSendEmptyContent(t *testing.T) {
	c := testCenter()
	if _, _, err := c.Send(nil, "   ", "s"); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestMarkRead(t *testing.T) {
	c := testCenter()
	history, _, _ := c.Send(nil, "one", "s")
	history, _, _ = c.Send(history, "two", "s")

	next, err := c.MarkRead(history, "msg-1")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !next[0].Read || next[1].Read {
		t.Fatalf("expected only msg-1 read: %+v", next)
	}
	if history[0].Read {
		t.Fatalf("input history mutated")
	}

	if _, err := c.MarkRead(history, "missing"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unknown id must error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	history := []types.Message{
		{ID: "a", Read: true},
		{ID: "b"},
		{ID: "c"},
	}
	stats := Summarize(history)
	if stats.Total != 3 || stats.Read != 1 || stats.Unread != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if empty := Summarize(nil); empty.Total != 0 || empty.Read != 0 || empty.Unread != 0 {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}
}
