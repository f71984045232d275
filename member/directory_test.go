package member

import (
	"errors"
	"testing"
)

const goodPassword = "Sup3r$ecret"

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	return NewDirectory(100, 3)
}

func register(t *testing.T, d *Directory, username string) *Member {
	t.Helper()
	m, err := d.Register(username, goodPassword, "Test Member", username+"@example.com", Standard)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return m
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		email    string
		tier     Tier
		wantErr  error
	}{
		{"ok", "alice", goodPassword, "alice@example.com", Standard, nil},
		{"short password", "bob", "Ab1$", "bob@example.com", Standard, ErrWeakPassword},
		{"no uppercase", "bob", "weak$pass1", "bob@example.com", Standard, ErrWeakPassword},
		{"no digit", "bob", "Weak$pass", "bob@example.com", Standard, ErrWeakPassword},
		{"no special", "bob", "Weakpass1", "bob@example.com", Standard, ErrWeakPassword},
		{"missing at", "bob", goodPassword, "bob.example.com", Standard, ErrInvalidEmail},
		{"missing domain dot", "bob", goodPassword, "bob@example", Standard, ErrInvalidEmail},
		{"dot right after at", "bob", goodPassword, "bob@.com", Standard, ErrInvalidEmail},
		{"unknown tier", "bob", goodPassword, "bob@example.com", Tier("vip"), ErrInvalidTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDirectory(t)
			_, err := d.Register(tt.username, tt.password, "Test", tt.email, tt.tier)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	d := newTestDirectory(t)
	register(t, d, "alice")

	_, err := d.Register("alice", goodPassword, "Other", "other@example.com", Premium)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("want ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterCapacity(t *testing.T) {
	d := NewDirectory(1, 3)
	register(t, d, "alice")

	_, err := d.Register("bob", goodPassword, "Bob", "bob@example.com", Standard)
	if !errors.Is(err, ErrMemberLimit) {
		t.Errorf("want ErrMemberLimit, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	d := newTestDirectory(t)
	register(t, d, "alice")

	m, err := d.Authenticate("alice", goodPassword)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if m.Username() != "alice" {
		t.Errorf("username = %q, want alice", m.Username())
	}

	if _, err := d.Authenticate("alice", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("want ErrBadCredentials, got %v", err)
	}
	if _, err := d.Authenticate("ghost", goodPassword); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("want ErrMemberNotFound, got %v", err)
	}
}

func TestLockoutAfterFailedAttempts(t *testing.T) {
	d := newTestDirectory(t)
	m := register(t, d, "alice")

	for i := 0; i < 3; i++ {
		if _, err := d.Authenticate("alice", "wrong"); !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("attempt %d: want ErrBadCredentials, got %v", i+1, err)
		}
	}
	if m.Active() {
		t.Fatal("account still active after three failed attempts")
	}

	// Even the right password is refused while inactive.
	if _, err := d.Authenticate("alice", goodPassword); !errors.Is(err, ErrInactiveAccount) {
		t.Errorf("want ErrInactiveAccount, got %v", err)
	}

	if err := d.Reactivate("alice"); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := d.Authenticate("alice", goodPassword); err != nil {
		t.Errorf("authenticate after reactivation: %v", err)
	}
}

func TestSuccessResetsAttemptCounter(t *testing.T) {
	d := newTestDirectory(t)
	register(t, d, "alice")

	d.Authenticate("alice", "wrong")
	d.Authenticate("alice", "wrong")
	if _, err := d.Authenticate("alice", goodPassword); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	// Two more failures should not lock the account.
	d.Authenticate("alice", "wrong")
	d.Authenticate("alice", "wrong")
	if _, err := d.Authenticate("alice", goodPassword); err != nil {
		t.Errorf("authenticate after reset: %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	d := newTestDirectory(t)
	register(t, d, "alice")

	if err := d.SetPassword("alice", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("want ErrWeakPassword, got %v", err)
	}

	if err := d.SetPassword("alice", "N3w$ecret!"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if _, err := d.Authenticate("alice", goodPassword); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, err := d.Authenticate("alice", "N3w$ecret!"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestSetTier(t *testing.T) {
	d := newTestDirectory(t)
	m := register(t, d, "alice")

	if err := d.SetTier("alice", Premium); err != nil {
		t.Fatalf("set tier: %v", err)
	}
	if m.Tier() != Premium {
		t.Errorf("tier = %q, want premium", m.Tier())
	}

	if err := d.SetTier("alice", Tier("vip")); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("want ErrInvalidTier, got %v", err)
	}
	if err := d.SetTier("ghost", Premium); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("want ErrMemberNotFound, got %v", err)
	}
}

func TestLoanBookkeeping(t *testing.T) {
	d := newTestDirectory(t)
	m := register(t, d, "alice")

	if m.HasLoan(1) {
		t.Error("fresh member has a loan")
	}
	if m.LoanCount() != 0 || m.TotalBorrowed() != 0 {
		t.Error("fresh member has non-zero counters")
	}
}
