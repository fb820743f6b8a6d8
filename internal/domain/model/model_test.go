//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"lms-platform/internal/domain"
)

// --- Purchase Model Tests ---

func TestNewPurchase(t *testing.T) {
	t.Run("should create a pending purchase with defaults", func(t *testing.T) {
		p, err := NewPurchase("pur-1", "course-1", "user-1", 500, "")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if p.Status != PurchaseStatusPending {
			t.Errorf("expected status 'pending', got %q", p.Status)
		}
		if p.Currency != "USD" {
			t.Errorf("expected default currency USD, got %q", p.Currency)
		}
		if p.Amount != 500 {
			t.Errorf("expected amount 500, got %d", p.Amount)
		}
	})

	t.Run("should reject negative amount", func(t *testing.T) {
		_, err := NewPurchase("pur-1", "course-1", "user-1", -1, "USD")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("should reject missing references", func(t *testing.T) {
		if _, err := NewPurchase("pur-1", "", "user-1", 10, "USD"); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for missing course, got %v", err)
		}
		if _, err := NewPurchase("pur-1", "course-1", "", 10, "USD"); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation for missing user, got %v", err)
		}
	})
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to PurchaseStatus
		want     bool
	}{
		{PurchaseStatusPending, PurchaseStatusCompleted, true},
		{PurchaseStatusPending, PurchaseStatusFailed, true},
		{PurchaseStatusCompleted, PurchaseStatusRefunded, true},
		{PurchaseStatusPending, PurchaseStatusRefunded, false},
		{PurchaseStatusFailed, PurchaseStatusCompleted, false},
		{PurchaseStatusFailed, PurchaseStatusRefunded, false},
		{PurchaseStatusRefunded, PurchaseStatusCompleted, false},
		{PurchaseStatusRefunded, PurchaseStatusPending, false},
		{PurchaseStatusCompleted, PurchaseStatusPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPurchaseIsRefundable(t *testing.T) {
	now := time.Now().UTC()

	t.Run("completed purchase inside the window is refundable", func(t *testing.T) {
		p := &Purchase{Status: PurchaseStatusCompleted, CreatedAt: now.Add(-29 * 24 * time.Hour)}
		if !p.IsRefundable(now) {
			t.Error("expected purchase created 29 days ago to be refundable")
		}
	})

	t.Run("completed purchase outside the window is not refundable", func(t *testing.T) {
		p := &Purchase{Status: PurchaseStatusCompleted, CreatedAt: now.Add(-31 * 24 * time.Hour)}
		if p.IsRefundable(now) {
			t.Error("expected purchase created 31 days ago to not be refundable")
		}
	})

	t.Run("non-completed purchase is never refundable", func(t *testing.T) {
		for _, st := range []PurchaseStatus{PurchaseStatusPending, PurchaseStatusFailed, PurchaseStatusRefunded} {
			p := &Purchase{Status: st, CreatedAt: now}
			if p.IsRefundable(now) {
				t.Errorf("expected status %q to not be refundable", st)
			}
		}
	})
}

// --- User Model Tests ---

func TestNewUser(t *testing.T) {
	t.Run("should normalize email and default role", func(t *testing.T) {
		u, err := NewUser("user-1", "Ada", " Ada@Example.COM ", "hash", "")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if u.Email != "ada@example.com" {
			t.Errorf("expected lowercased trimmed email, got %q", u.Email)
		}
		if u.Role != UserRoleStudent {
			t.Errorf("expected default role student, got %q", u.Role)
		}
	})

	t.Run("should reject unknown role", func(t *testing.T) {
		_, err := NewUser("user-1", "Ada", "ada@example.com", "hash", "superuser")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

// --- CourseProgress Model Tests ---

func TestCourseProgressTouch(t *testing.T) {
	now := time.Now().UTC()

	t.Run("completion percentage tracks completed lectures", func(t *testing.T) {
		cp, err := NewCourseProgress("prog-1", "user-1", "course-1")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		cp.Touch("lec-1", 10, true, now)
		cp.Touch("lec-2", 5, false, now)
		cp.Touch("lec-3", 5, false, now)
		cp.Touch("lec-4", 5, false, now)
		if cp.CompletionPercentage != 25 {
			t.Errorf("expected 25%%, got %d%%", cp.CompletionPercentage)
		}
		cp.Touch("lec-2", 5, true, now)
		if cp.CompletionPercentage != 50 {
			t.Errorf("expected 50%%, got %d%%", cp.CompletionPercentage)
		}
		if cp.IsCompleted {
			t.Error("expected course to not be completed at 50%")
		}
	})

	t.Run("all lectures complete marks the course complete", func(t *testing.T) {
		cp, _ := NewCourseProgress("prog-1", "user-1", "course-1")
		cp.Touch("lec-1", 10, true, now)
		cp.Touch("lec-2", 10, true, now)
		if !cp.IsCompleted || cp.CompletionPercentage != 100 {
			t.Errorf("expected completed at 100%%, got %d%% completed=%v", cp.CompletionPercentage, cp.IsCompleted)
		}
	})

	t.Run("watch time accumulates per lecture", func(t *testing.T) {
		cp, _ := NewCourseProgress("prog-1", "user-1", "course-1")
		cp.Touch("lec-1", 10, false, now)
		cp.Touch("lec-1", 15, false, now)
		if got := cp.Lectures[0].WatchTime; got != 25 {
			t.Errorf("expected accumulated watch time 25, got %v", got)
		}
	})
}
