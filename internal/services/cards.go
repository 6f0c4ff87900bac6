package services

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Card is one instrument known to the simulated issuer.
type Card struct {
	Number  string
	Expiry  string
	CVV     string
	Balance decimal.Decimal
	Blocked bool
}

// CardAuthorizer is the injectable card-authorization capability. Authorize
// returns the instrument's balance after a successful charge, or one of the
// decline sentinels (ErrCardNotFound, ErrInvalidSecurityCode,
// ErrCardBlocked, ErrInsufficientFunds). Refund credits a previously
// authorized amount back when the payment cannot be completed.
type CardAuthorizer interface {
	Authorize(cardNumber string, cvv string, expiry string, amount decimal.Decimal) (decimal.Decimal, error)
	Refund(cardNumber string, amount decimal.Decimal)
}

// CardVault simulates the issuing bank with an in-memory card table. The
// backing table is supplied at construction so tests can use deterministic
// fixtures.
type CardVault struct {
	mu    sync.Mutex
	cards map[string]*Card
}

func NewCardVault(cards []Card) *CardVault {
	table := make(map[string]*Card, len(cards))
	for index := range cards {
		card := cards[index]
		table[card.Number] = &card
	}
	return &CardVault{cards: table}
}

func (vault *CardVault) Authorize(cardNumber string, cvv string, expiry string, amount decimal.Decimal) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")

	vault.mu.Lock()
	defer vault.mu.Unlock()

	card, found := vault.cards[cleaned]
	if !found {
		return decimal.Zero, ErrCardNotFound
	}
	if card.CVV != cvv {
		return decimal.Zero, ErrInvalidSecurityCode
	}
	if card.Blocked {
		return decimal.Zero, ErrCardBlocked
	}
	if card.Balance.LessThan(amount) {
		return decimal.Zero, ErrInsufficientFunds
	}

	card.Balance = card.Balance.Sub(amount)
	return card.Balance, nil
}

// Refund restores a charged amount onto the card. Used when the debit was
// authorized but the payment could not be committed.
func (vault *CardVault) Refund(cardNumber string, amount decimal.Decimal) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")

	vault.mu.Lock()
	defer vault.mu.Unlock()

	if card, found := vault.cards[cleaned]; found {
		card.Balance = card.Balance.Add(amount)
	}
}

// DefaultSimulatorCards returns the fixed card table the simulator ships
// with: a funded card, a low-balance card, and a blocked one.
func DefaultSimulatorCards() []Card {
	return []Card{
		{Number: "4000123456789010", Expiry: "2028-12", CVV: "123", Balance: decimal.NewFromInt(5000)},
		{Number: "5000123456789010", Expiry: "2026-10", CVV: "456", Balance: decimal.NewFromInt(50)},
		{Number: "4111111111111111", Expiry: "2030-01", CVV: "999", Balance: decimal.NewFromInt(10000), Blocked: true},
	}
}
