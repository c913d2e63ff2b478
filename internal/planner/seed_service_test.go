package planner

import (
	"context"
	"testing"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/testfixtures"
)

func TestSeedService_Seed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	expos := newStubExpoRepository()
	exhibitors := newStubExhibitorRepository()
	users := newStubUserRepository()
	ids := testfixtures.NewIDGenerator("seed")
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	svc := NewSeedService(expos, exhibitors, users, ids.NextFunc(), clock.NowFunc(), nil)

	result, err := svc.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if result.AlreadySeeded {
		t.Fatal("first seed reported already seeded")
	}
	if result.Expos != 2 || result.Exhibitors != 8 {
		t.Fatalf("unexpected seed counts: %+v", result)
	}

	count, err := exhibitors.CountExhibitors(ctx)
	if err != nil || count != 8 {
		t.Fatalf("expected 8 exhibitors, got %d (%v)", count, err)
	}

	admin, err := users.GetUserByEmail(ctx, "admin@expointel.com")
	if err != nil {
		t.Fatalf("admin account missing: %v", err)
	}
	if admin.Role != "admin" {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}
	if err := application.VerifyPassword(admin.PasswordHash, "admin123"); err != nil {
		t.Fatalf("admin password does not verify: %v", err)
	}
	if _, err := users.GetUserByEmail(ctx, "demo@expointel.com"); err != nil {
		t.Fatalf("demo account missing: %v", err)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		repeat, err := svc.Seed(ctx)
		if err != nil {
			t.Fatalf("repeat Seed: %v", err)
		}
		if !repeat.AlreadySeeded {
			t.Fatal("expected already seeded")
		}
		count, err := expos.CountExpos(ctx)
		if err != nil || count != 2 {
			t.Fatalf("expected 2 expos after repeat, got %d (%v)", count, err)
		}
	})
}
