package core

import (
	"log/slog"
	"time"

	"github.com/Axio-Lab/verxioprotocol-sub000/core/events"
	"github.com/Axio-Lab/verxioprotocol-sub000/ledger"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/fees"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/loyalty"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/messaging"
	"github.com/Axio-Lab/verxioprotocol-sub000/native/voucher"
	"github.com/Axio-Lab/verxioprotocol-sub000/observability"
)

// Protocol is the top-level entry point for every loyalty and voucher
// operation. Each public method is an independent unit of work: it reads the
// current record state from the ledger client, runs the pure engines on it,
// decorates the resulting write with the protocol fee and submits the batch.
// No state is cached between calls; every operation starts from a fresh
// read.
type Protocol struct {
	client   ledger.Client
	points   *loyalty.Engine
	vouchers *voucher.Engine
	center   *messaging.Center
	composer *fees.Composer
	emitter  events.Emitter
	log      *slog.Logger
	metrics  *observability.OperationMetrics
	nowFn    func() int64
}

// Option configures a Protocol.
type Option func(*Protocol)

// WithEmitter attaches an event emitter. Nil resets to a no-op.
func WithEmitter(emitter events.Emitter) Option {
	return func(p *Protocol) {
		if emitter == nil {
			emitter = events.NoopEmitter{}
		}
		p.emitter = emitter
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Protocol) {
		if log != nil {
			p.log = log
		}
	}
}

// WithFeeComposer replaces the default fee composer.
func WithFeeComposer(composer *fees.Composer) Option {
	return func(p *Protocol) {
		if composer != nil {
			p.composer = composer
		}
	}
}

// WithMetrics attaches the operation metrics registry.
func WithMetrics(m *observability.OperationMetrics) Option {
	return func(p *Protocol) { p.metrics = m }
}

// WithNowFunc overrides the time source across the protocol and its
// engines, for deterministic tests.
func WithNowFunc(now func() int64) Option {
	return func(p *Protocol) {
		if now == nil {
			now = func() int64 { return time.Now().Unix() }
		}
		p.nowFn = now
		p.points.SetNowFunc(now)
		p.vouchers.SetNowFunc(now)
		p.center.SetNowFunc(now)
	}
}

// New creates a protocol over the given ledger client. Without options it
// uses the default fee schedule with an unset treasury, a no-op emitter and
// the default logger.
func New(client ledger.Client, opts ...Option) *Protocol {
	p := &Protocol{
		client:   client,
		points:   loyalty.NewEngine(),
		vouchers: voucher.NewEngine(),
		center:   messaging.NewCenter(),
		composer: fees.NewComposer(nil, [20]byte{}),
		emitter:  events.NoopEmitter{},
		log:      slog.Default(),
		nowFn:    func() int64 { return time.Now().Unix() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Protocol) now() int64 { return p.nowFn() }

func (p *Protocol) emit(evt events.Event) {
	if p.emitter != nil {
		p.emitter.Emit(evt)
	}
}

func (p *Protocol) observe(operation, outcome string) {
	if p.metrics != nil {
		p.metrics.ObserveOperation(operation, outcome)
	}
}
