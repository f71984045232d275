// Package member holds library member accounts. Loan and reservation
// records on a member are bookkeeping mirrors maintained by the
// lending coordinator, which is the only mutation path.
package member

import (
	"time"
)

// Tier is a member's account classification. It selects the borrow
// limit and loan period from the lending configuration table.
type Tier string

const (
	Standard Tier = "standard"
	Premium  Tier = "premium"
	Student  Tier = "student"
	Faculty  Tier = "faculty"
	Staff    Tier = "staff"
	Guest    Tier = "guest"
)

// Valid reports whether the tier is one of the known classifications.
func (t Tier) Valid() bool {
	switch t {
	case Standard, Premium, Student, Faculty, Staff, Guest:
		return true
	}
	return false
}

// Loan is one active borrow held by a member.
type Loan struct {
	BookID     int64
	BorrowedAt time.Time
	DueDate    time.Time
}

// Member is a registered library member.
type Member struct {
	username     string
	passwordHash []byte
	fullName     string
	email        string
	tier         Tier
	joinedAt     time.Time

	active        bool
	loginAttempts int

	loans    []Loan
	reserved []int64
	balance  float64
	borrowed int // lifetime borrow count
}

func (m *Member) Username() string  { return m.username }
func (m *Member) FullName() string  { return m.fullName }
func (m *Member) Email() string     { return m.email }
func (m *Member) Tier() Tier        { return m.tier }
func (m *Member) JoinedAt() time.Time { return m.joinedAt }
func (m *Member) Active() bool      { return m.active }
func (m *Member) Balance() float64  { return m.balance }
func (m *Member) TotalBorrowed() int { return m.borrowed }

// Loans returns a copy of the member's active loans in borrow order.
func (m *Member) Loans() []Loan {
	out := make([]Loan, len(m.loans))
	copy(out, m.loans)
	return out
}

// LoanCount returns the number of active loans.
func (m *Member) LoanCount() int { return len(m.loans) }

// HasLoan reports whether the member currently holds the book.
func (m *Member) HasLoan(bookID int64) bool {
	for _, l := range m.loans {
		if l.BookID == bookID {
			return true
		}
	}
	return false
}

// Reserved returns a copy of the member's reserved book ids.
func (m *Member) Reserved() []int64 {
	out := make([]int64, len(m.reserved))
	copy(out, m.reserved)
	return out
}

// AddLoan records a new active loan. Reserved for the lending
// coordinator, which has already checked the limit and duplicates.
func (m *Member) AddLoan(bookID int64, borrowedAt, due time.Time) {
	m.loans = append(m.loans, Loan{BookID: bookID, BorrowedAt: borrowedAt, DueDate: due})
	m.borrowed++
}

// RemoveLoan drops the loan record and reports whether it existed.
// Reserved for the lending coordinator.
func (m *Member) RemoveLoan(bookID int64) bool {
	for i, l := range m.loans {
		if l.BookID == bookID {
			m.loans = append(m.loans[:i], m.loans[i+1:]...)
			return true
		}
	}
	return false
}

// SetLoanDue rewrites the due date on the loan record so it stays in
// step with the ledger after a renewal.
func (m *Member) SetLoanDue(bookID int64, due time.Time) bool {
	for i, l := range m.loans {
		if l.BookID == bookID {
			m.loans[i].DueDate = due
			return true
		}
	}
	return false
}

// AddReservation records the reserved book id.
func (m *Member) AddReservation(bookID int64) {
	m.reserved = append(m.reserved, bookID)
}

// RemoveReservation drops the reserved book id and reports whether it
// was present.
func (m *Member) RemoveReservation(bookID int64) bool {
	for i, id := range m.reserved {
		if id == bookID {
			m.reserved = append(m.reserved[:i], m.reserved[i+1:]...)
			return true
		}
	}
	return false
}

// AddBalance accrues a charge (late fees) on the member's account.
func (m *Member) AddBalance(amount float64) {
	m.balance += amount
}
