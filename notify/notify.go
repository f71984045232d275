// Package notify delivers library notices to members. The core hands
// messages to a Sink and does not wait for delivery.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind int

const (
	DueDateReminder Kind = iota
	OverdueNotice
	ReservationAvailable
	NewBookArrival
	GeneralAnnouncement
)

// String returns the display prefix used for the kind.
func (k Kind) String() string {
	switch k {
	case DueDateReminder:
		return "REMINDER"
	case OverdueNotice:
		return "OVERDUE"
	case ReservationAvailable:
		return "RESERVATION"
	case NewBookArrival:
		return "NEW BOOK"
	case GeneralAnnouncement:
		return "ANNOUNCEMENT"
	default:
		return "UNKNOWN"
	}
}

// Sink receives notifications. Implementations must not block the
// caller on delivery.
type Sink interface {
	Notify(recipient, message string, kind Kind)
}

// Notification is a single delivered notice.
type Notification struct {
	ID        int64
	Recipient string
	Message   string
	Kind      Kind
	SentAt    time.Time
	Read      bool
}

// Inbox is an in-memory Sink that retains notifications per recipient
// with unread tracking.
type Inbox struct {
	mu     sync.Mutex
	nextID int64
	notes  []Notification
}

// NewInbox returns an empty Inbox.
func NewInbox() *Inbox {
	return &Inbox{nextID: 1}
}

// Notify records the notification.
func (in *Inbox) Notify(recipient, message string, kind Kind) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.notes = append(in.notes, Notification{
		ID:        in.nextID,
		Recipient: recipient,
		Message:   message,
		Kind:      kind,
		SentAt:    time.Now(),
	})
	in.nextID++
}

// All returns every notification for the recipient, oldest first.
func (in *Inbox) All(recipient string) []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	var out []Notification
	for _, n := range in.notes {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	return out
}

// Unread returns unread notifications for the recipient, oldest first.
func (in *Inbox) Unread(recipient string) []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	var out []Notification
	for _, n := range in.notes {
		if n.Recipient == recipient && !n.Read {
			out = append(out, n)
		}
	}
	return out
}

// MarkRead marks a notification as read. It reports whether the id
// was found.
func (in *Inbox) MarkRead(id int64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.notes {
		if in.notes[i].ID == id {
			in.notes[i].Read = true
			return true
		}
	}
	return false
}
