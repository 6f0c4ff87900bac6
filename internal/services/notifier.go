package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/grupo09/debtmanager/internal/models"
	"github.com/shopspring/decimal"
)

const minimumPhoneLength = 10

// MessageSender delivers one outbound message to a phone number. Errors are
// reported to the caller but alerting is always best effort.
type MessageSender interface {
	Send(phone string, body string) error
}

type NotifierUserRepository interface {
	FindByID(userID uint) (models.User, error)
}

type NotifierDebtRepository interface {
	ListActiveForUser(userID uint) ([]models.Debt, error)
}

type NotificationStore interface {
	Create(notification *models.Notification) error
}

// Notifier collapses debt-level events into at most one outbound message
// per user per trigger occasion. Delivery failures are logged and never
// propagate to the write path that triggered them.
type Notifier struct {
	users         NotifierUserRepository
	debts         NotifierDebtRepository
	notifications NotificationStore
	sender        MessageSender
	location      *time.Location
	now           func() time.Time
	dispatch      func(task func())
}

func NewNotifier(
	users NotifierUserRepository,
	debts NotifierDebtRepository,
	notifications NotificationStore,
	sender MessageSender,
	location *time.Location,
) *Notifier {
	if location == nil {
		location = time.UTC
	}
	return &Notifier{
		users:         users,
		debts:         debts,
		notifications: notifications,
		sender:        sender,
		location:      location,
		now:           time.Now,
		dispatch:      func(task func()) { go task() },
	}
}

// EligiblePhone reports whether a phone number can receive WhatsApp alerts:
// international format with a leading plus and a minimum length.
func EligiblePhone(phone string) bool {
	trimmed := strings.TrimSpace(phone)
	return strings.HasPrefix(trimmed, "+") && len(trimmed) >= minimumPhoneLength
}

// AlertOverdueCreated fans out one "just became overdue" alert listing only
// the newly overdue debts from the triggering operation. Non-blocking.
func (notifier *Notifier) AlertOverdueCreated(userID uint, debts []models.Debt) {
	if len(debts) == 0 {
		return
	}
	snapshot := make([]models.Debt, len(debts))
	copy(snapshot, debts)

	notifier.dispatch(func() {
		user, err := notifier.users.FindByID(userID)
		if err != nil {
			log.Printf("notifier: load user %d failed: %v", userID, err)
			return
		}

		message := BuildOverdueAlertMessage(user, snapshot)
		notifier.persist(models.Notification{
			UserID:  userID,
			Type:    models.NotificationTypeOverdueAlert,
			Title:   "Overdue debts",
			Message: message,
		})
		notifier.deliver(user, message)
	})
}

// NotifyPaymentAccepted delivers the post-commit payment confirmation. The
// notification row was already written inside the payment transaction; only
// the outbound message is sent here. Non-blocking.
func (notifier *Notifier) NotifyPaymentAccepted(userID uint, debt models.Debt, amount decimal.Decimal, reference string) {
	message := fmt.Sprintf("Payment of %s toward %q accepted. Ref: %s", amount.StringFixed(2), debt.Description, reference)
	notifier.dispatch(func() {
		user, err := notifier.users.FindByID(userID)
		if err != nil {
			log.Printf("notifier: load user %d failed: %v", userID, err)
			return
		}
		notifier.deliver(user, message)
	})
}

// SendDailyDigest builds and sends the daily digest for one user: every
// unpaid debt, split into overdue and upcoming sections. Users without an
// eligible phone are skipped silently.
func (notifier *Notifier) SendDailyDigest(user models.User) {
	debts, err := notifier.debts.ListActiveForUser(user.ID)
	if err != nil {
		log.Printf("notifier: fetch debts for user %d failed: %v", user.ID, err)
		return
	}
	if len(debts) == 0 {
		return
	}

	today := DateAtLocation(notifier.now(), notifier.location)
	for index := range debts {
		debts[index].Status = ComputeStatus(debts[index].Amount, debts[index].PaidAmount, debts[index].DueDate, today)
	}
	message := BuildDailyDigestMessage(user, debts, today)
	notifier.persist(models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationTypeDailyDigest,
		Title:   "Daily debt summary",
		Message: message,
	})
	notifier.deliver(user, message)
}

func (notifier *Notifier) persist(notification models.Notification) {
	if notifier.notifications == nil {
		return
	}
	if err := notifier.notifications.Create(&notification); err != nil {
		log.Printf("notifier: persist notification for user %d failed: %v", notification.UserID, err)
	}
}

func (notifier *Notifier) deliver(user models.User, message string) {
	if !EligiblePhone(user.Phone) {
		log.Printf("notifier: user %d has no eligible phone, skipping", user.ID)
		return
	}
	if notifier.sender == nil {
		return
	}
	if err := notifier.sender.Send(strings.TrimSpace(user.Phone), message); err != nil {
		log.Printf("notifier: send to user %d failed: %v", user.ID, err)
	}
}

func BuildOverdueAlertMessage(user models.User, debts []models.Debt) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Hi %s, %d of your debts just became overdue:\n", user.Name, len(debts))
	for _, debt := range debts {
		appendDebtLine(&builder, debt)
	}
	builder.WriteString("\nLog in to settle your accounts.")
	return builder.String()
}

func BuildDailyDigestMessage(user models.User, debts []models.Debt, today time.Time) string {
	overdue := make([]models.Debt, 0, len(debts))
	upcoming := make([]models.Debt, 0, len(debts))
	for _, debt := range debts {
		if debt.Status == models.StatusOverdue {
			overdue = append(overdue, debt)
			continue
		}
		upcoming = append(upcoming, debt)
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Hi %s, here is your debt summary for %s.\n", user.Name, today.Format("Jan 2"))
	if len(overdue) > 0 {
		fmt.Fprintf(&builder, "\nOverdue (%d):\n", len(overdue))
		for _, debt := range overdue {
			appendDebtLine(&builder, debt)
		}
	}
	if len(upcoming) > 0 {
		fmt.Fprintf(&builder, "\nUpcoming (%d):\n", len(upcoming))
		for _, debt := range upcoming {
			appendDebtLine(&builder, debt)
		}
	}
	return builder.String()
}

func appendDebtLine(builder *strings.Builder, debt models.Debt) {
	fmt.Fprintf(builder, "- %s (%s): %s due %s\n",
		debt.Description,
		debt.BankName,
		debt.RemainingAmount().StringFixed(2),
		debt.DueDate.Format("2006-01-02"),
	)
}
