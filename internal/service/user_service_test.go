package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
)

func TestUserService_UpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	ada := f.register(t, "Ada", "ada@example.com", "S1001")
	f.register(t, "Bob", "bob@example.com", "S1002")
	svc := NewUserService(f.users, nil, media.Limits{}, nil)
	ctx := context.Background()

	name := "  Ada Lovelace "
	updated, err := svc.UpdateProfile(ctx, ada.User.ID, ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != "Ada Lovelace" {
		t.Fatalf("expected trimmed name, got %q", updated.Name)
	}

	taken := "BOB@example.com"
	if _, err := svc.UpdateProfile(ctx, ada.User.ID, ProfileUpdate{Email: &taken}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
	blank := " "
	assertValidation(t, func() error { _, err := svc.UpdateProfile(ctx, ada.User.ID, ProfileUpdate{Name: &blank}); return err }())
}

func TestUserService_ChangePassword_RevokesRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ada := f.register(t, "Ada", "ada@example.com", "S1001")
	svc := NewUserService(f.users, nil, media.Limits{}, nil)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, ada.User.ID, "wrong-one", "newpass1"); !errors.Is(err, ErrIncorrectPassword) {
		t.Fatalf("expected incorrect password, got %v", err)
	}
	assertValidation(t, svc.ChangePassword(ctx, ada.User.ID, "secret123", "123"))

	if err := svc.ChangePassword(ctx, ada.User.ID, "secret123", "newpass1"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, err := f.svc.Refresh(ctx, ada.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected refresh token revoked, got %v", err)
	}
	if _, err := f.svc.Login(ctx, "S1001", "newpass1"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestUserService_ProfilePictureReplacesOldAsset(t *testing.T) {
	f := newAuthFixture(t)
	ada := f.register(t, "Ada", "ada@example.com", "S1001")
	storage := &fakeStorage{}
	svc := NewUserService(f.users, storage, media.Limits{}, nil)
	ctx := context.Background()

	first, err := svc.SetProfilePicture(ctx, ada.User.ID, pngUpload(t))
	if err != nil {
		t.Fatalf("SetProfilePicture returned error: %v", err)
	}
	second, err := svc.SetProfilePicture(ctx, ada.User.ID, pngUpload(t))
	if err != nil {
		t.Fatalf("SetProfilePicture returned error: %v", err)
	}
	if !storage.wasDestroyed(first.ProfilePicture.AssetID) {
		t.Fatalf("expected previous picture destroyed")
	}

	cleared, err := svc.RemoveProfilePicture(ctx, ada.User.ID)
	if err != nil {
		t.Fatalf("RemoveProfilePicture returned error: %v", err)
	}
	if cleared.ProfilePicture != nil || !storage.wasDestroyed(second.ProfilePicture.AssetID) {
		t.Fatalf("expected picture cleared and destroyed")
	}
}

func TestUserService_FeaturedPhotosLimit(t *testing.T) {
	f := newAuthFixture(t)
	ada := f.register(t, "Ada", "ada@example.com", "S1001")
	storage := &fakeStorage{}
	svc := NewUserService(f.users, storage, media.Limits{}, nil)
	ctx := context.Background()

	var user *domain.User
	for i := 0; i < domain.MaxFeaturedPhotos; i++ {
		var err error
		user, err = svc.AddFeaturedPhoto(ctx, ada.User.ID, pngUpload(t), "campus")
		if err != nil {
			t.Fatalf("AddFeaturedPhoto %d returned error: %v", i, err)
		}
	}
	if _, err := svc.AddFeaturedPhoto(ctx, ada.User.ID, pngUpload(t), "one too many"); !errors.Is(err, ErrFeaturedPhotosFull) {
		t.Fatalf("expected limit reached, got %v", err)
	}
	if len(storage.uploads) != domain.MaxFeaturedPhotos {
		t.Fatalf("expected no upload past the limit, got %d", len(storage.uploads))
	}

	target := user.FeaturedPhotos[2].AssetID
	captioned, err := svc.UpdateFeaturedPhotoCaption(ctx, ada.User.ID, target, " library ")
	if err != nil {
		t.Fatalf("UpdateFeaturedPhotoCaption returned error: %v", err)
	}
	if captioned.FeaturedPhotos[2].Caption != "library" {
		t.Fatalf("expected trimmed caption, got %q", captioned.FeaturedPhotos[2].Caption)
	}

	removed, err := svc.RemoveFeaturedPhoto(ctx, ada.User.ID, target)
	if err != nil {
		t.Fatalf("RemoveFeaturedPhoto returned error: %v", err)
	}
	if len(removed.FeaturedPhotos) != domain.MaxFeaturedPhotos-1 || !storage.wasDestroyed(target) {
		t.Fatalf("expected photo removed and destroyed")
	}
	if _, err := svc.RemoveFeaturedPhoto(ctx, ada.User.ID, target); !errors.Is(err, ErrFeaturedPhotoMissing) {
		t.Fatalf("expected missing photo, got %v", err)
	}
}

func TestUserService_UploadsNeedStorage(t *testing.T) {
	f := newAuthFixture(t)
	ada := f.register(t, "Ada", "ada@example.com", "S1001")
	svc := NewUserService(f.users, nil, media.Limits{}, nil)

	if _, err := svc.SetProfilePicture(context.Background(), ada.User.ID, pngUpload(t)); !errors.Is(err, ErrMediaUnavailable) {
		t.Fatalf("expected media unavailable, got %v", err)
	}

	withStorage := NewUserService(f.users, &fakeStorage{}, media.Limits{}, nil)
	_, err := withStorage.SetProfilePicture(context.Background(), ada.User.ID, media.Upload{})
	assertValidation(t, err)
}

func TestUserService_PublicProfileHidesPrivateFields(t *testing.T) {
	f := newAuthFixture(t)
	ada := f.register(t, "Ada", "ada@example.com", "S1001")
	svc := NewUserService(f.users, nil, media.Limits{}, nil)

	public, err := svc.PublicProfile(context.Background(), ada.User.ID)
	if err != nil {
		t.Fatalf("PublicProfile returned error: %v", err)
	}
	if public.Name != "Ada" || public.FeaturedPhotos == nil {
		t.Fatalf("unexpected public profile %+v", public)
	}
}
