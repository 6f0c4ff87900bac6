package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/grupo09/debtmanager/internal/db"
	"github.com/grupo09/debtmanager/internal/services"
	"github.com/shopspring/decimal"
)

type captureMailer struct {
	to      []string
	bodies  []string
	subject string
}

func (mailer *captureMailer) SendMail(to string, subject string, body string) error {
	mailer.to = append(mailer.to, to)
	mailer.subject = subject
	mailer.bodies = append(mailer.bodies, body)
	return nil
}

func (mailer *captureMailer) lastBody() string {
	if len(mailer.bodies) == 0 {
		return ""
	}
	return mailer.bodies[len(mailer.bodies)-1]
}

// newTestApp builds the full HTTP surface over a throwaway SQLite file, the
// in-memory reset code store and the simulator card table.
func newTestApp(t *testing.T) (*fiber.App, *captureMailer) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "api_test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := database.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	repos := db.NewRepositories(database)
	mailer := &captureMailer{}

	authService := services.NewAuthService(repos.Users, services.NewMemoryResetCodeStore(), mailer)
	debtService := services.NewDebtService(repos.Debts, nil, time.UTC)
	cardVault := services.NewCardVault(services.DefaultSimulatorCards())
	paymentService := services.NewPaymentService(repos.Debts, cardVault, nil, time.UTC)

	handler := NewHandler(authService, debtService, paymentService, repos, "api-test-secret", time.UTC)
	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, mailer
}

func jsonRequest(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func registerAccount(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Maria",
		"email":    email,
		"phone":    "+51987654321",
		"password": "supersecret",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected status 201, got %d", email, response.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, response, &body)
	if body.Token == "" {
		t.Fatal("register response missing token")
	}
	return body.Token
}

type debtResponse struct {
	ID                 uint
	BankName           string
	Description        string
	Amount             decimal.Decimal
	PaidAmount         decimal.Decimal
	DueDate            time.Time
	Status             string
	TotalInstallments  int
	CurrentInstallment int
	BatchID            string
	Urgency            string
}

func createDebt(t *testing.T, app *fiber.App, token string, payload fiber.Map) []debtResponse {
	t.Helper()

	response := jsonRequest(t, app, http.MethodPost, "/api/debts", token, payload)
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create debt: expected status 201, got %d", response.StatusCode)
	}
	var created []debtResponse
	decodeBody(t, response, &created)
	return created
}

func listDebts(t *testing.T, app *fiber.App, token string) []debtResponse {
	t.Helper()

	response := jsonRequest(t, app, http.MethodGet, "/api/debts", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("list debts: expected status 200, got %d", response.StatusCode)
	}
	var debts []debtResponse
	decodeBody(t, response, &debts)
	return debts
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	app, _ := newTestApp(t)

	response := jsonRequest(t, app, http.MethodGet, "/api/debts", "", nil)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", response.StatusCode)
	}
	response.Body.Close()

	garbage := jsonRequest(t, app, http.MethodGet, "/api/debts", "not-a-jwt", nil)
	if garbage.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with garbage token, got %d", garbage.StatusCode)
	}
	garbage.Body.Close()
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	app, _ := newTestApp(t)

	response := jsonRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Maria",
		"email":    "  Maria@Example.com ",
		"phone":    "+51987654321",
		"password": "supersecret",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, response, &body)
	if body.User.Email != "maria@example.com" {
		t.Fatalf("expected normalized email, got %q", body.User.Email)
	}

	duplicate := jsonRequest(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Other",
		"email":    "MARIA@example.com",
		"phone":    "+51911111111",
		"password": "supersecret",
	})
	if duplicate.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate email, got %d", duplicate.StatusCode)
	}
	duplicate.Body.Close()
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	registerAccount(t, app, "login@example.com")

	response := jsonRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "login@example.com",
		"password": "wrongpassword",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestDebtInstallmentLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "debts@example.com")

	created := createDebt(t, app, token, fiber.Map{
		"bank_name":    "BCP",
		"description":  "Laptop",
		"amount":       "1500.00",
		"due_date":     "2099-01-15",
		"frequency":    "monthly",
		"installments": 3,
	})
	if len(created) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(created))
	}
	wantDates := []string{"2099-01-15", "2099-02-15", "2099-03-15"}
	for index, debt := range created {
		if debt.CurrentInstallment != index+1 {
			t.Fatalf("installment %d has current_installment %d", index, debt.CurrentInstallment)
		}
		if debt.BatchID != created[0].BatchID {
			t.Fatal("installments must share one batch id")
		}
		if got := debt.DueDate.Format("2006-01-02"); got != wantDates[index] {
			t.Fatalf("installment %d due %s, want %s", index, got, wantDates[index])
		}
		if debt.Status != "pending" {
			t.Fatalf("installment %d status %q, want pending", index, debt.Status)
		}
	}

	listed := listDebts(t, app, token)
	if len(listed) != 3 {
		t.Fatalf("expected 3 listed debts, got %d", len(listed))
	}
	if listed[0].Urgency != "normal" {
		t.Fatalf("far-future debt urgency %q, want normal", listed[0].Urgency)
	}

	newDescription := "Gaming laptop"
	edited := jsonRequest(t, app, http.MethodPut, "/api/debts/"+itoa(created[0].ID), token, fiber.Map{
		"description": newDescription,
	})
	if edited.StatusCode != http.StatusOK {
		t.Fatalf("edit debt: expected status 200, got %d", edited.StatusCode)
	}
	var updated debtResponse
	decodeBody(t, edited, &updated)
	if updated.Description != newDescription {
		t.Fatalf("description %q, want %q", updated.Description, newDescription)
	}
	if updated.BankName != "BCP" {
		t.Fatalf("unset field changed: bank %q", updated.BankName)
	}

	deleted := jsonRequest(t, app, http.MethodDelete, "/api/debts/"+itoa(created[1].ID), token, nil)
	if deleted.StatusCode != http.StatusOK {
		t.Fatalf("delete debt: expected status 200, got %d", deleted.StatusCode)
	}
	deleted.Body.Close()

	if remaining := listDebts(t, app, token); len(remaining) != 2 {
		t.Fatalf("expected 2 debts after delete, got %d", len(remaining))
	}
}

func TestDebtsAreInvisibleAcrossAccounts(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken := registerAccount(t, app, "owner@example.com")
	otherToken := registerAccount(t, app, "other@example.com")

	created := createDebt(t, app, ownerToken, fiber.Map{
		"bank_name":   "BBVA",
		"description": "Phone",
		"amount":      "900.00",
		"due_date":    "2099-06-01",
	})

	if foreign := listDebts(t, app, otherToken); len(foreign) != 0 {
		t.Fatalf("expected empty list for other account, got %d debts", len(foreign))
	}

	hijack := jsonRequest(t, app, http.MethodPut, "/api/debts/"+itoa(created[0].ID), otherToken, fiber.Map{
		"description": "mine now",
	})
	if hijack.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign edit, got %d", hijack.StatusCode)
	}
	hijack.Body.Close()

	erase := jsonRequest(t, app, http.MethodDelete, "/api/debts/"+itoa(created[0].ID), otherToken, nil)
	if erase.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 for foreign delete, got %d", erase.StatusCode)
	}
	erase.Body.Close()
}

func TestCreateDebtValidationErrors(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "validation@example.com")

	response := jsonRequest(t, app, http.MethodPost, "/api/debts", token, fiber.Map{
		"description": "No bank",
		"amount":      "100.00",
		"due_date":    "2099-01-01",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, response, &body)
	if body.Error == "" {
		t.Fatal("expected error message in body")
	}

	badDate := jsonRequest(t, app, http.MethodPost, "/api/debts", token, fiber.Map{
		"bank_name":   "BCP",
		"description": "Bad date",
		"amount":      "100.00",
		"due_date":    "15/01/2099",
	})
	if badDate.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400 for malformed date, got %d", badDate.StatusCode)
	}
	badDate.Body.Close()
}

func TestPaymentSettlesDebtOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "payer@example.com")

	created := createDebt(t, app, token, fiber.Map{
		"bank_name":   "Interbank",
		"description": "Credit card",
		"amount":      "100.00",
		"due_date":    "2099-01-01",
	})

	response := jsonRequest(t, app, http.MethodPost, "/api/payments", token, fiber.Map{
		"debt_id":     created[0].ID,
		"amount":      "100.00",
		"card_number": "4000123456789010",
		"card_exp":    "2028-12",
		"card_cvv":    "123",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	var receipt struct {
		Success         bool            `json:"success"`
		Reference       string          `json:"reference"`
		RemainingAmount decimal.Decimal `json:"remaining_amount"`
	}
	decodeBody(t, response, &receipt)
	if !receipt.Success {
		t.Fatal("expected success true")
	}
	if len(receipt.Reference) != 10 || receipt.Reference[:4] != "AUT-" {
		t.Fatalf("unexpected reference %q", receipt.Reference)
	}
	if !receipt.RemainingAmount.IsZero() {
		t.Fatalf("remaining %s, want 0", receipt.RemainingAmount)
	}

	if listed := listDebts(t, app, token); len(listed) != 0 {
		t.Fatalf("paid debt must not appear in active list, got %d debts", len(listed))
	}

	history := jsonRequest(t, app, http.MethodGet, "/api/payments", token, nil)
	if history.StatusCode != http.StatusOK {
		t.Fatalf("list payments: expected status 200, got %d", history.StatusCode)
	}
	var records []struct {
		Reference string
		Notes     string
	}
	decodeBody(t, history, &records)
	if len(records) != 1 {
		t.Fatalf("expected 1 payment record, got %d", len(records))
	}
	if records[0].Reference != receipt.Reference {
		t.Fatalf("ledger reference %q, receipt %q", records[0].Reference, receipt.Reference)
	}
	if records[0].Notes != "Card ending in 9010" {
		t.Fatalf("ledger notes %q", records[0].Notes)
	}

	inbox := jsonRequest(t, app, http.MethodGet, "/api/notifications", token, nil)
	var notifications []struct {
		ID   uint
		Type string
	}
	decodeBody(t, inbox, &notifications)
	if len(notifications) != 1 || notifications[0].Type != "payment_success" {
		t.Fatalf("expected one payment_success notification, got %+v", notifications)
	}

	markRead := jsonRequest(t, app, http.MethodPost, "/api/notifications/"+itoa(notifications[0].ID)+"/read", token, nil)
	if markRead.StatusCode != http.StatusOK {
		t.Fatalf("mark read: expected status 200, got %d", markRead.StatusCode)
	}
	markRead.Body.Close()
}

func TestPaymentDeclineLeavesDebtUntouched(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "declined@example.com")

	created := createDebt(t, app, token, fiber.Map{
		"bank_name":   "BCP",
		"description": "Loan",
		"amount":      "100.00",
		"due_date":    "2099-01-01",
	})

	response := jsonRequest(t, app, http.MethodPost, "/api/payments", token, fiber.Map{
		"debt_id":     created[0].ID,
		"amount":      "100.00",
		"card_number": "4000123456789010",
		"card_exp":    "2028-12",
		"card_cvv":    "999",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, response, &body)
	if body.Error != "transaction declined: invalid security code" {
		t.Fatalf("unexpected error %q", body.Error)
	}

	listed := listDebts(t, app, token)
	if len(listed) != 1 || !listed[0].PaidAmount.IsZero() {
		t.Fatalf("declined payment must not touch the debt, got %+v", listed)
	}
}

func TestOverpaymentConflictReportsRemaining(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "overpay@example.com")

	created := createDebt(t, app, token, fiber.Map{
		"bank_name":   "BCP",
		"description": "Loan",
		"amount":      "100.00",
		"due_date":    "2099-01-01",
	})

	response := jsonRequest(t, app, http.MethodPost, "/api/payments", token, fiber.Map{
		"debt_id":     created[0].ID,
		"amount":      "150.00",
		"card_number": "4000123456789010",
		"card_exp":    "2028-12",
		"card_cvv":    "123",
	})
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", response.StatusCode)
	}
	var body struct {
		RemainingAmount decimal.Decimal `json:"remaining_amount"`
	}
	decodeBody(t, response, &body)
	if !body.RemainingAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("remaining %s, want 100", body.RemainingAmount)
	}
}

func TestPasswordResetFlowOverHTTP(t *testing.T) {
	app, mailer := newTestApp(t)
	registerAccount(t, app, "reset@example.com")

	forgot := jsonRequest(t, app, http.MethodPost, "/api/auth/forgot-password", "", fiber.Map{
		"email": "reset@example.com",
	})
	if forgot.StatusCode != http.StatusOK {
		t.Fatalf("forgot-password: expected status 200, got %d", forgot.StatusCode)
	}
	forgot.Body.Close()

	code := extractResetCode(t, mailer.lastBody())

	reset := jsonRequest(t, app, http.MethodPost, "/api/auth/reset-password", "", fiber.Map{
		"email":        "reset@example.com",
		"code":         code,
		"new_password": "brandnewpass",
	})
	if reset.StatusCode != http.StatusOK {
		t.Fatalf("reset-password: expected status 200, got %d", reset.StatusCode)
	}
	reset.Body.Close()

	oldLogin := jsonRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "reset@example.com",
		"password": "supersecret",
	})
	if oldLogin.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old password must stop working, got status %d", oldLogin.StatusCode)
	}
	oldLogin.Body.Close()

	newLogin := jsonRequest(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "reset@example.com",
		"password": "brandnewpass",
	})
	if newLogin.StatusCode != http.StatusOK {
		t.Fatalf("new password login: expected status 200, got %d", newLogin.StatusCode)
	}
	newLogin.Body.Close()

	replay := jsonRequest(t, app, http.MethodPost, "/api/auth/reset-password", "", fiber.Map{
		"email":        "reset@example.com",
		"code":         code,
		"new_password": "anotherpass99",
	})
	if replay.StatusCode != http.StatusBadRequest {
		t.Fatalf("reused code must be rejected, got status %d", replay.StatusCode)
	}
	replay.Body.Close()
}

func TestStatisticsAggregatePerStatus(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "stats@example.com")

	created := createDebt(t, app, token, fiber.Map{
		"bank_name":   "BCP",
		"description": "Loan",
		"amount":      "100.00",
		"due_date":    "2099-01-01",
	})
	createDebt(t, app, token, fiber.Map{
		"bank_name":   "BBVA",
		"description": "Old bill",
		"amount":      "40.00",
		"due_date":    "2020-01-01",
	})

	payment := jsonRequest(t, app, http.MethodPost, "/api/payments", token, fiber.Map{
		"debt_id":     created[0].ID,
		"amount":      "100.00",
		"card_number": "4000123456789010",
		"card_exp":    "2028-12",
		"card_cvv":    "123",
	})
	if payment.StatusCode != http.StatusOK {
		t.Fatalf("payment: expected status 200, got %d", payment.StatusCode)
	}
	payment.Body.Close()

	response := jsonRequest(t, app, http.MethodGet, "/api/statistics", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("statistics: expected status 200, got %d", response.StatusCode)
	}
	var stats struct {
		TotalDebts    int             `json:"total_debts"`
		PaidCount     int             `json:"paid_count"`
		PaidAmount    decimal.Decimal `json:"paid_amount"`
		OverdueCount  int             `json:"overdue_count"`
		OverdueAmount decimal.Decimal `json:"overdue_amount"`
	}
	decodeBody(t, response, &stats)
	if stats.TotalDebts != 2 {
		t.Fatalf("total debts %d, want 2", stats.TotalDebts)
	}
	if stats.PaidCount != 1 || !stats.PaidAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("paid count %d amount %s", stats.PaidCount, stats.PaidAmount)
	}
	if stats.OverdueCount != 1 || !stats.OverdueAmount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("overdue count %d amount %s", stats.OverdueCount, stats.OverdueAmount)
	}
}

func TestListBanksReturnsSeededCatalog(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerAccount(t, app, "banks@example.com")

	response := jsonRequest(t, app, http.MethodGet, "/api/banks", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	var banks []struct {
		Name string
	}
	decodeBody(t, response, &banks)
	if len(banks) == 0 {
		t.Fatal("expected seeded banks")
	}
	for index := 1; index < len(banks); index++ {
		if banks[index].Name < banks[index-1].Name {
			t.Fatal("banks not ordered by name")
		}
	}
}

func extractResetCode(t *testing.T, mailBody string) string {
	t.Helper()
	marker := "reset code is: "
	start := strings.Index(mailBody, marker)
	if start < 0 {
		t.Fatalf("no reset code in mail body %q", mailBody)
	}
	start += len(marker)
	if len(mailBody) < start+6 {
		t.Fatalf("truncated reset code in mail body %q", mailBody)
	}
	return mailBody[start : start+6]
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
