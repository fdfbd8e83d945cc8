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
	"github.com/Axio-Lab/verxioprotocol-sub000/native/messaging"
)

// MessageResult carries the appended message and the submission
// confirmation.
type MessageResult struct {
	Message      *types.Message
	Confirmation *ledger.Confirmation
}

// SendMessage appends a message to a pass's history.
func (p *Protocol) SendMessage(ctx context.Context, passID [32]byte, content, sender string, signer *crypto.PrivateKey) (*MessageResult, error) {
	const op = "send_message"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	pass, err := p.client.PassRecord(ctx, passID)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	history, msg, err := p.center.Send(pass.Messages, content, sender)
	if err != nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: %s", protoerr.ErrConfiguration, err)
	}
	next := pass.Clone()
	next.Messages = history

	conf, err := p.submitPass(ctx, next, pass.Version, signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.MessageSent{Pass: passID, MessageID: msg.ID, Sender: sender})
	p.observe(op, "ok")
	return &MessageResult{Message: msg, Confirmation: conf}, nil
}

// MarkMessageRead flips the read flag of one pass message.
func (p *Protocol) MarkMessageRead(ctx context.Context, passID [32]byte, messageID string, signer *crypto.PrivateKey) (*ledger.Confirmation, error) {
	const op = "mark_message_read"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	pass, err := p.client.PassRecord(ctx, passID)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	history, err := p.center.MarkRead(pass.Messages, messageID)
	if err != nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: %s", protoerr.ErrNotFound, err)
	}
	next := pass.Clone()
	next.Messages = history

	conf, err := p.submitPass(ctx, next, pass.Version, signer)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.MessageRead{Pass: passID, MessageID: messageID})
	p.observe(op, "ok")
	return conf, nil
}

// MessageStats derives read/unread counts for a pass's message history.
func (p *Protocol) MessageStats(ctx context.Context, passID [32]byte) (*messaging.Stats, error) {
	pass, err := p.client.PassRecord(ctx, passID)
	if err != nil {
		return nil, err
	}
	stats := messaging.Summarize(pass.Messages)
	return &stats, nil
}

// SendBroadcast appends a program-wide broadcast visible to all pass
// holders and advances the running broadcast count.
func (p *Protocol) SendBroadcast(ctx context.Context, programID [32]byte, content, sender string, signer *crypto.PrivateKey) (*MessageResult, error) {
	const op = "send_broadcast"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	program, err := p.client.ProgramRecord(ctx, programID)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	history, msg, err := p.center.Send(program.Broadcasts, content, sender)
	if err != nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: %s", protoerr.ErrConfiguration, err)
	}
	next := program.Clone()
	next.Broadcasts = history
	next.TotalBroadcasts++

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      next,
		ReadVersion: program.Version,
		Fee:         p.fee(fees.CategoryInteraction, signer),
		Signer:      signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.BroadcastSent{Program: programID, MessageID: msg.ID, Sender: sender})
	p.observe(op, "ok")
	return &MessageResult{Message: msg, Confirmation: conf}, nil
}

// MarkBroadcastRead flips the read flag of one program broadcast.
func (p *Protocol) MarkBroadcastRead(ctx context.Context, programID [32]byte, messageID string, signer *crypto.PrivateKey) (*ledger.Confirmation, error) {
	const op = "mark_broadcast_read"
	if signer == nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: signer is required", protoerr.ErrConfiguration)
	}
	program, err := p.client.ProgramRecord(ctx, programID)
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}
	history, err := p.center.MarkRead(program.Broadcasts, messageID)
	if err != nil {
		p.observe(op, "invalid")
		return nil, fmt.Errorf("%w: %s", protoerr.ErrNotFound, err)
	}
	next := program.Clone()
	next.Broadcasts = history

	conf, err := p.client.Submit(ctx, &ledger.WriteBatch{
		Record:      next,
		ReadVersion: program.Version,
		Fee:         p.fee(fees.CategoryInteraction, signer),
		Signer:      signer,
	})
	if err != nil {
		p.observe(op, "error")
		return nil, err
	}

	p.emit(events.BroadcastRead{Program: programID, MessageID: messageID})
	p.observe(op, "ok")
	return conf, nil
}

// BroadcastStats derives read/unread counts for a program's broadcasts.
func (p *Protocol) BroadcastStats(ctx context.Context, programID [32]byte) (*messaging.Stats, error) {
	program, err := p.client.ProgramRecord(ctx, programID)
	if err != nil {
		return nil, err
	}
	stats := messaging.Summarize(program.Broadcasts)
	return &stats, nil
}
