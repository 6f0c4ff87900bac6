package api

import (
	"time"

	"github.com/grupo09/debtmanager/internal/db"
	"github.com/grupo09/debtmanager/internal/services"
	"github.com/shopspring/decimal"
)

type Handler struct {
	auth          *services.AuthService
	debts         *services.DebtService
	payments      *services.PaymentService
	paymentsRepo  *db.PaymentRepository
	banks         *db.BankRepository
	notifications *db.NotificationRepository
	secretKey     []byte
	location      *time.Location
}

func NewHandler(
	auth *services.AuthService,
	debts *services.DebtService,
	payments *services.PaymentService,
	repos *db.Repositories,
	secretKey string,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		auth:          auth,
		debts:         debts,
		payments:      payments,
		paymentsRepo:  repos.Payments,
		banks:         repos.Banks,
		notifications: repos.Notifications,
		secretKey:     []byte(secretKey),
		location:      location,
	}
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordInput struct {
	Email string `json:"email"`
}

type resetPasswordInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type createDebtInput struct {
	BankName     string          `json:"bank_name"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      string          `json:"due_date"`
	Frequency    string          `json:"frequency"`
	Installments int             `json:"installments"`
}

type updateDebtInput struct {
	BankName    *string          `json:"bank_name"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *string          `json:"due_date"`
}

type createPaymentInput struct {
	DebtID      uint            `json:"debt_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	CardNumber  string          `json:"card_number"`
	CardExpiry  string          `json:"card_exp"`
	CardCVV     string          `json:"card_cvv"`
}

const dateLayout = "2006-01-02"
