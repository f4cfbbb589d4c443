package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentUPI  = "upi"
	PaymentBank = "bank"
)

const (
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
	PeriodYearly  = "YEARLY"
)

const (
	DefaultCurrency    = "USD"
	DefaultLanguage    = "en"
	DefaultTheme       = "light"
	DefaultDescription = "No description"
)

// maxAmount is the first value that does not fit numeric(14,2).
var maxAmount = decimal.New(1, 12)

// ValidAmount reports whether d is non-negative and storable in a money
// column without rounding.
func ValidAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(maxAmount) && d.Equal(d.Round(2))
}

func ValidType(t string) bool {
	return t == TypeExpense || t == TypeIncome
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentBank:
		return true
	}
	return false
}

func ValidPeriod(p string) bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type User struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name                 string     `gorm:"size:100;not null"`
	Username             *string    `gorm:"size:50;uniqueIndex"`
	Email                string     `gorm:"size:255;uniqueIndex;not null"`
	Password             string     `gorm:"size:255;not null"`
	Currency             string     `gorm:"size:3;not null;default:USD"`
	Language             string     `gorm:"size:8;not null;default:en"`
	Theme                string     `gorm:"size:16;not null;default:light"`
	ResetPasswordToken   *string    `gorm:"size:64;index"`
	ResetPasswordExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Transaction is one income or expense entry. Date is a calendar day stored
// at UTC midnight.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type          string          `gorm:"size:16;not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Category      string          `gorm:"size:64;not null"`
	Description   string          `gorm:"size:255;not null"`
	Date          time.Time       `gorm:"type:date;index;not null"`
	PaymentMethod string          `gorm:"size:16;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Budget struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Category  string          `gorm:"size:64;not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Period    string          `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Budget) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
