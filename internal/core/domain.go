package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryType = "income"
	Expense CategoryType = "expense"
)

const (
	Monthly PeriodType = "monthly"
	Yearly  PeriodType = "yearly"
	Custom  PeriodType = "custom"
)

type (
	CategoryType string

	PeriodType string

	Date struct {
		time.Time
	}

	User struct {
		ID              int64
		Username        string
		PasswordHash    string
		DefaultCurrency string
		CreatedAt       time.Time
	}

	Category struct {
		ID        int64
		UserID    int64
		Name      string
		Type      CategoryType
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Subcategory struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Name       string
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	Budget struct {
		ID            int64
		UserID        int64
		CategoryID    int64
		SubcategoryID *int64
		Amount        decimal.Decimal
		Currency      string
		StartDate     Date
		EndDate       Date
		PeriodType    PeriodType
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	Transaction struct {
		ID            int64
		UserID        int64
		CategoryID    int64
		SubcategoryID *int64
		Amount        decimal.Decimal
		Currency      string
		Date          Date
		Description   string
		Type          CategoryType
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	CurrencyRate struct {
		ID            int64
		UserID        int64
		FromCurrency  string
		ToCurrency    string
		Rate          decimal.Decimal
		EffectiveDate Date
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidRate      = errors.New("rate must be positive")
	ErrInvalidType      = errors.New("type must be income or expense")
	ErrInvalidPeriod    = errors.New("period type must be monthly, yearly or custom")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrSameCurrency     = errors.New("from and to currencies must differ")
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Within reports whether d falls inside [start, end] inclusive.
func (d Date) Within(start, end Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

// MonthIndex returns the number of whole calendar months between origin and d.
// Negative when d precedes origin's month.
func (d Date) MonthIndex(origin Date) int {
	return (d.Year()-origin.Year())*12 + int(d.Month()) - int(origin.Month())
}

// MonthsSpanned counts the calendar months covered by [start, end] inclusive.
func MonthsSpanned(start, end Date) int {
	n := end.MonthIndex(start) + 1
	if n < 1 {
		return 0
	}
	return n
}

// MonthBounds returns the first and last day of the given calendar month.
func MonthBounds(year, month int) (Date, Date) {
	first := NewDate(year, month, 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

// Today returns the current calendar date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// CurrentMonthBounds returns the bounds of the current calendar month in UTC.
func CurrentMonthBounds() (Date, Date) {
	now := time.Now().UTC()
	return MonthBounds(now.Year(), int(now.Month()))
}

func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

func (p PeriodType) Valid() bool {
	return p == Monthly || p == Yearly || p == Custom
}

// ValidCurrency accepts ISO-4217 style three-letter uppercase codes.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (s Subcategory) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidCurrency(b.Currency) {
		return ErrInvalidCurrency
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() || b.StartDate.After(b.EndDate.Time) {
		return ErrInvalidDateRange
	}
	if !b.PeriodType.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !ValidCurrency(t.Currency) {
		return ErrInvalidCurrency
	}
	if t.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (r CurrencyRate) Validate() error {
	if !ValidCurrency(r.FromCurrency) || !ValidCurrency(r.ToCurrency) {
		return ErrInvalidCurrency
	}
	if r.FromCurrency == r.ToCurrency {
		return ErrSameCurrency
	}
	if !r.Rate.IsPositive() {
		return ErrInvalidRate
	}
	if r.EffectiveDate.IsZero() {
		return errors.New("effective date cannot be zero")
	}
	return nil
}
