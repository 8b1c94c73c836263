package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	// Date is a calendar day. The time-of-day portion is always midnight UTC;
	// expenses and period windows only care about whole days.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID          int64
		Username    string
		Email       string
		DisplayName string
	}

	Place struct {
		ID        int64
		Name      string
		CreatedBy int64
		CreatedAt time.Time
	}

	PlaceMember struct {
		PlaceID  int64
		UserID   int64
		Role     MemberRole
		JoinedAt time.Time
	}

	PlaceInvite struct {
		ID        int64
		PlaceID   int64
		Email     string
		Token     string
		InvitedBy int64
		Status    InviteStatus
		CreatedAt time.Time
		ExpiresAt time.Time
	}

	ExpenseCategory struct {
		ID      int64
		PlaceID int64
		Name    string
	}

	// Expense is a single cost in a place, shared equally among Splits.
	// An empty Splits set means the payer carries the whole expense alone.
	Expense struct {
		ID          int64
		PlaceID     int64
		Amount      Money
		Description string
		Date        Date
		PaidBy      int64
		AddedBy     int64
		CategoryID  int64
		Splits      []int64
		CreatedAt   time.Time
	}

	MemberRole   string
	InviteStatus string
)

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"

	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
	InviteRevoked  InviteStatus = "revoked"
)

// DefaultCategories are seeded into every newly created place.
var DefaultCategories = []string{"Rent", "Utilities", "Groceries", "Internet", "Other"}

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyPlaceName     = errors.New("empty place name")
	ErrEmptyCategoryName  = errors.New("empty category name")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidPeriodSpec  = errors.New("invalid period specification")
	ErrDuplicateSplitUser = errors.New("duplicate split participant")
	ErrValueTooLong       = errors.New("value too long")
)

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

// AddDays returns the date shifted by n whole days (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time) / (24 * time.Hour))
}

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// MarshalJSON renders the date as a bare YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (p Place) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPlaceName
	}
	if len(p.Name) > 255 {
		return fmt.Errorf("%w: place name exceeds 255 characters", ErrValueTooLong)
	}
	return nil
}

func (c ExpenseCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	if len(c.Name) > 100 {
		return fmt.Errorf("%w: category name exceeds 100 characters", ErrValueTooLong)
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 255 {
		return fmt.Errorf("%w: description exceeds 255 characters", ErrValueTooLong)
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	seen := make(map[int64]bool, len(e.Splits))
	for _, uid := range e.Splits {
		if seen[uid] {
			return ErrDuplicateSplitUser
		}
		seen[uid] = true
	}
	return nil
}

// InWindow reports whether the expense date falls inside [start, end], both inclusive.
func (e Expense) InWindow(start, end Date) bool {
	return !e.Date.Before(start.Time) && !e.Date.After(end.Time)
}
