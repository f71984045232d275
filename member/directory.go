package member

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Errors returned by the Directory.
var (
	// ErrUsernameTaken is returned when registering a duplicate username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrMemberNotFound is returned when no member has the username.
	ErrMemberNotFound = errors.New("member not found")

	// ErrMemberLimit is returned when the member capacity is reached.
	ErrMemberLimit = errors.New("member capacity exceeded")

	// ErrWeakPassword is returned when a password fails the strength
	// rules at registration or password change.
	ErrWeakPassword = errors.New("password must be at least 8 characters with uppercase, lowercase, digit and special character")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidTier is returned for an unknown account tier.
	ErrInvalidTier = errors.New("unknown account tier")

	// ErrInactiveAccount is returned when authenticating against a
	// deactivated account.
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrBadCredentials is returned on a failed password check.
	ErrBadCredentials = errors.New("invalid username or password")
)

// Directory holds the registered members keyed by username.
type Directory struct {
	members     map[string]*Member
	capacity    int
	maxAttempts int
}

// NewDirectory returns an empty directory holding at most capacity
// members. An account deactivates after maxAttempts failed logins.
func NewDirectory(capacity, maxAttempts int) *Directory {
	return &Directory{
		members:     make(map[string]*Member),
		capacity:    capacity,
		maxAttempts: maxAttempts,
	}
}

// Register validates the credentials and creates an active member.
func (d *Directory) Register(username, password, fullName, email string, tier Tier) (*Member, error) {
	if len(d.members) >= d.capacity {
		return nil, ErrMemberLimit
	}
	if _, exists := d.members[username]; exists {
		return nil, ErrUsernameTaken
	}
	if !tier.Valid() {
		return nil, ErrInvalidTier
	}
	if !strongPassword(password) {
		return nil, ErrWeakPassword
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	m := &Member{
		username:     username,
		passwordHash: hash,
		fullName:     fullName,
		email:        email,
		tier:         tier,
		joinedAt:     time.Now(),
		active:       true,
	}
	d.members[username] = m
	return m, nil
}

// Get returns the member with the given username.
func (d *Directory) Get(username string) (*Member, error) {
	m, ok := d.members[username]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// Len returns the number of registered members.
func (d *Directory) Len() int { return len(d.members) }

// All returns every member ordered by username.
func (d *Directory) All() []*Member {
	out := make([]*Member, 0, len(d.members))
	for _, m := range d.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].username < out[j].username })
	return out
}

// Authenticate verifies the password. Failed attempts are counted and
// the account deactivates once the limit is reached; success resets
// the counter.
func (d *Directory) Authenticate(username, password string) (*Member, error) {
	m, ok := d.members[username]
	if !ok {
		return nil, ErrMemberNotFound
	}
	if !m.active {
		return nil, ErrInactiveAccount
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		m.loginAttempts++
		if m.loginAttempts >= d.maxAttempts {
			m.active = false
		}
		return nil, ErrBadCredentials
	}
	m.loginAttempts = 0
	return m, nil
}

// Reactivate re-enables a deactivated account and clears the failed
// attempt counter. Admin-only surface.
func (d *Directory) Reactivate(username string) error {
	m, ok := d.members[username]
	if !ok {
		return ErrMemberNotFound
	}
	m.active = true
	m.loginAttempts = 0
	return nil
}

// SetPassword replaces the member's password after strength checks.
func (d *Directory) SetPassword(username, password string) error {
	m, ok := d.members[username]
	if !ok {
		return ErrMemberNotFound
	}
	if !strongPassword(password) {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.passwordHash = hash
	return nil
}

// SetTier changes the member's account classification.
func (d *Directory) SetTier(username string, tier Tier) error {
	m, ok := d.members[username]
	if !ok {
		return ErrMemberNotFound
	}
	if !tier.Valid() {
		return ErrInvalidTier
	}
	m.tier = tier
	return nil
}

func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	dot := strings.Index(email[at:], ".")
	if dot < 0 {
		return false
	}
	dot += at
	return dot > at+1 && dot < len(email)-1
}
