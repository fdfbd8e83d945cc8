package fees

import (
	"math/big"
	"strings"
)

// Category keys the fixed protocol fee applied to a mutating operation.
type Category string

const (
	// CategoryCreateProgram covers loyalty program creation.
	CategoryCreateProgram Category = "create_program"
	// CategoryCreateCollection covers voucher collection creation.
	CategoryCreateCollection Category = "create_collection"
	// CategoryOperation covers loyalty and voucher state mutations.
	CategoryOperation Category = "operation"
	// CategoryInteraction covers every other mutating interaction and is
	// the fallback for unknown categories.
	CategoryInteraction Category = "interaction"
)

// Default fee amounts in the smallest denomination.
const (
	defaultCreateProgramFee    = 2_000_000
	defaultCreateCollectionFee = 1_500_000
	defaultOperationFee        = 500_000
	defaultInteractionFee      = 100_000
)

// NormalizeCategory canonicalises category identifiers for consistent
// lookups.
func NormalizeCategory(category string) Category {
	return Category(strings.ToLower(strings.TrimSpace(category)))
}

// Schedule maps operation categories to fixed fee amounts.
type Schedule struct {
	amounts map[Category]*big.Int
}

// DefaultSchedule returns the built-in protocol fee schedule.
func DefaultSchedule() *Schedule {
	return &Schedule{amounts: map[Category]*big.Int{
		CategoryCreateProgram:    big.NewInt(defaultCreateProgramFee),
		CategoryCreateCollection: big.NewInt(defaultCreateCollectionFee),
		CategoryOperation:        big.NewInt(defaultOperationFee),
		CategoryInteraction:      big.NewInt(defaultInteractionFee),
	}}
}

// Override replaces the amount for one category. Unknown categories are
// added so deployments can introduce new operation classes by configuration.
func (s *Schedule) Override(category Category, amount *big.Int) {
	if s == nil || amount == nil || amount.Sign() < 0 {
		return
	}
	if s.amounts == nil {
		s.amounts = make(map[Category]*big.Int)
	}
	s.amounts[NormalizeCategory(string(category))] = new(big.Int).Set(amount)
}

// Amount resolves the fee for the category, falling back to the generic
// interaction fee. The lookup never fails: fee composition is orthogonal to
// business validation.
func (s *Schedule) Amount(category Category) *big.Int {
	if s == nil || s.amounts == nil {
		return big.NewInt(defaultInteractionFee)
	}
	if amount, ok := s.amounts[NormalizeCategory(string(category))]; ok {
		return new(big.Int).Set(amount)
	}
	if fallback, ok := s.amounts[CategoryInteraction]; ok {
		return new(big.Int).Set(fallback)
	}
	return big.NewInt(defaultInteractionFee)
}

// Clone returns a deep copy of the schedule to avoid aliasing the amounts
// map between callers.
func (s *Schedule) Clone() *Schedule {
	clone := &Schedule{amounts: make(map[Category]*big.Int)}
	if s == nil || s.amounts == nil {
		return clone
	}
	for category, amount := range s.amounts {
		clone.amounts[category] = new(big.Int).Set(amount)
	}
	return clone
}

// Instruction is one fee transfer attached to a write batch.
type Instruction struct {
	Payer    [20]byte
	Treasury [20]byte
	Amount   *big.Int
	Category Category
}

// Composer decorates mutating operations with the protocol fee transfer. It
// never fails and never alters the business result, only the bundle
// submitted to the ledger.
type Composer struct {
	schedule *Schedule
	treasury [20]byte
}

// NewComposer creates a fee composer routing fees to the treasury address.
// A nil schedule falls back to the defaults.
func NewComposer(schedule *Schedule, treasury [20]byte) *Composer {
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	return &Composer{schedule: schedule.Clone(), treasury: treasury}
}

// Compose builds the fee instruction for the operation category.
func (c *Composer) Compose(category Category, payer [20]byte) Instruction {
	if c == nil {
		return Instruction{Payer: payer, Category: NormalizeCategory(string(category)), Amount: big.NewInt(defaultInteractionFee)}
	}
	return Instruction{
		Payer:    payer,
		Treasury: c.treasury,
		Amount:   c.schedule.Amount(category),
		Category: NormalizeCategory(string(category)),
	}
}
