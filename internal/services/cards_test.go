package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCardVaultAuthorizeDebitsBalance(t *testing.T) {
	t.Parallel()

	vault := NewCardVault([]Card{
		{Number: "4000123456789010", Expiry: "2028-12", CVV: "123", Balance: decimal.NewFromInt(500)},
	})

	balance, err := vault.Authorize("4000 1234 5678 9010", "123", "2028-12", decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(380)) {
		t.Fatalf("balance after charge %s, want 380", balance)
	}

	// A second charge sees the debited balance.
	_, err = vault.Authorize("4000123456789010", "123", "2028-12", decimal.NewFromInt(400))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds on second charge, got %v", err)
	}
}

func TestCardVaultDeclineReasons(t *testing.T) {
	t.Parallel()

	vault := NewCardVault(DefaultSimulatorCards())

	tests := []struct {
		name    string
		number  string
		cvv     string
		amount  int64
		wantErr error
	}{
		{name: "card not found", number: "1111222233334444", cvv: "123", amount: 10, wantErr: ErrCardNotFound},
		{name: "cvv mismatch", number: "4000123456789010", cvv: "321", amount: 10, wantErr: ErrInvalidSecurityCode},
		{name: "blocked card", number: "4111111111111111", cvv: "999", amount: 10, wantErr: ErrCardBlocked},
		{name: "insufficient funds", number: "5000123456789010", cvv: "456", amount: 60, wantErr: ErrInsufficientFunds},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := vault.Authorize(test.number, test.cvv, "2030-01", decimal.NewFromInt(test.amount))
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}
