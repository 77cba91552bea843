package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// DateLayout is the display format of Record.CreatedAt.
const DateLayout = "2006-01-02"

type (
	Status string

	// Record is one row of managed business data.
	Record struct {
		ID        string
		Name      string
		Category  string
		Value     int64 // yen
		Status    Status
		CreatedAt string // YYYY-MM-DD, display only
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrNameTooLong   = errors.New("name too long (max 120 characters)")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidValue  = errors.New("invalid value")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDate   = errors.New("invalid creation date")
)

// Statuses returns the closed set of record statuses in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusPending}
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Label is the Japanese display name of s.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "アクティブ"
	case StatusInactive:
		return "非アクティブ"
	case StatusPending:
		return "保留中"
	default:
		return string(s)
	}
}

// ParseStatus converts user input into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func (r Record) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len([]rune(name)) > 120 {
		return ErrNameTooLong
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Value < 0 {
		return ErrInvalidValue
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	if r.CreatedAt != "" {
		if _, err := time.Parse(DateLayout, r.CreatedAt); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// Today returns the current date in the CreatedAt layout.
func Today() string {
	return time.Now().Format(DateLayout)
}
