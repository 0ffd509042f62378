package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

func TestUserRepositoryUpdateProfileRejectsTakenEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	a, err := repo.Create(ctx, &domain.User{Name: "A", Email: "a@x.com", StudentID: "1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{Name: "B", Email: "b@x.com", StudentID: "2"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	taken := "B@X.com"
	if _, err := repo.UpdateProfile(ctx, a.ID, nil, &taken); !errors.Is(err, ports.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	own := "A@x.com"
	updated, err := repo.UpdateProfile(ctx, a.ID, nil, &own)
	if err != nil {
		t.Fatalf("expected own email to be accepted, got %v", err)
	}
	if updated.Email != "a@x.com" {
		t.Fatalf("expected lower-cased email, got %q", updated.Email)
	}
}

func TestUserRepositoryUpdateProfileConcurrentEmailClaim(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	var ids []domain.User
	for _, handle := range []string{"1", "2", "3", "4", "5", "6", "7", "8"} {
		u, err := repo.Create(ctx, &domain.User{Name: handle, Email: handle + "@x.com", StudentID: handle})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		ids = append(ids, *u)
	}

	claimed := "shared@x.com"
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, u := range ids {
		wg.Add(1)
		go func(u domain.User) {
			defer wg.Done()
			if _, err := repo.UpdateProfile(ctx, u.ID, nil, &claimed); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ports.ErrDuplicate) {
				t.Errorf("unexpected error: %v", err)
			}
		}(u)
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one account to claim the email, got %d", successes)
	}
	owners := 0
	for _, u := range ids {
		got, err := repo.FindByID(ctx, u.ID)
		if err != nil {
			t.Fatalf("FindByID returned error: %v", err)
		}
		if got.Email == claimed {
			owners++
		}
	}
	if owners != 1 {
		t.Fatalf("expected one stored owner, got %d", owners)
	}
}
