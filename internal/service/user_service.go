package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/media"
	"github.com/campustour/tour-api/internal/repository/ports"
	"github.com/campustour/tour-api/internal/util"
)

var (
	ErrIncorrectPassword    = errors.New("current password is incorrect")
	ErrFeaturedPhotosFull   = errors.New("featured photo limit reached")
	ErrFeaturedPhotoMissing = errors.New("featured photo not found")
	ErrEmailTaken           = errors.New("email already in use")
)

type UserService struct {
	users  ports.UserRepository
	images imageStore
	log    *zap.Logger
}

func NewUserService(users ports.UserRepository, storage ports.MediaStorage, limits media.Limits, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("users")
	return &UserService{
		users:  users,
		images: imageStore{storage: storage, limits: limits, log: log},
		log:    log,
	}
}

type ProfileUpdate struct {
	Name  *string
	Email *string
}

func (s *UserService) Profile(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	return s.find(ctx, id)
}

// PublicProfile returns what other accounts may see of id.
func (s *UserService) PublicProfile(ctx context.Context, id bson.ObjectID) (*domain.PublicProfile, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id bson.ObjectID, in ProfileUpdate) (*domain.User, error) {
	var name, email *string
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, invalid("Name cannot be empty")
		}
		name = &trimmed
	}
	if in.Email != nil {
		normalized := util.NormalizeEmail(*in.Email)
		if !util.ValidEmail(normalized) {
			return nil, invalid("Please provide a valid email address")
		}
		email = &normalized
	}
	if name == nil && email == nil {
		return s.find(ctx, id)
	}
	user, err := s.users.UpdateProfile(ctx, id, name, email)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, ports.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password and revokes the stored refresh token,
// so other sessions must sign in again.
func (s *UserService) ChangePassword(ctx context.Context, id bson.ObjectID, current, next string) error {
	if current == "" || next == "" {
		return invalid("Please provide current and new password")
	}
	if err := util.ValidatePassword(next); err != nil {
		return invalid(err.Error())
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !util.VerifyPassword(current, user.PasswordHash) {
		return ErrIncorrectPassword
	}
	hash, err := util.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, id, nil); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *UserService) SetProfilePicture(ctx context.Context, id bson.ObjectID, upload media.Upload) (*domain.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := s.images.upload(ctx, domain.FolderProfilePictures, upload)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.SetProfilePicture(ctx, id, asset)
	if err != nil {
		s.images.destroy(ctx, asset.AssetID)
		return nil, fmt.Errorf("save profile picture: %w", err)
	}
	if user.ProfilePicture != nil {
		s.images.destroy(ctx, user.ProfilePicture.AssetID)
	}
	return updated, nil
}

func (s *UserService) RemoveProfilePicture(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ProfilePicture == nil {
		return user, nil
	}
	updated, err := s.users.SetProfilePicture(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("clear profile picture: %w", err)
	}
	s.images.destroy(ctx, user.ProfilePicture.AssetID)
	return updated, nil
}

func (s *UserService) AddFeaturedPhoto(ctx context.Context, id bson.ObjectID, upload media.Upload, caption string) (*domain.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(user.FeaturedPhotos) >= domain.MaxFeaturedPhotos {
		return nil, ErrFeaturedPhotosFull
	}
	asset, err := s.images.upload(ctx, domain.FolderFeaturedPhotos, upload)
	if err != nil {
		return nil, err
	}
	updated, err := s.users.AddFeaturedPhoto(ctx, id, domain.FeaturedPhoto{
		URL:     asset.URL,
		AssetID: asset.AssetID,
		Caption: strings.TrimSpace(caption),
	})
	if err != nil {
		s.images.destroy(ctx, asset.AssetID)
		switch {
		case errors.Is(err, ports.ErrConflict):
			return nil, ErrFeaturedPhotosFull
		case errors.Is(err, ports.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("save featured photo: %w", err)
	}
	return updated, nil
}

func (s *UserService) UpdateFeaturedPhotoCaption(ctx context.Context, id bson.ObjectID, assetID, caption string) (*domain.User, error) {
	updated, err := s.users.UpdateFeaturedPhotoCaption(ctx, id, assetID, strings.TrimSpace(caption))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrFeaturedPhotoMissing
		}
		return nil, fmt.Errorf("update caption: %w", err)
	}
	return updated, nil
}

func (s *UserService) RemoveFeaturedPhoto(ctx context.Context, id bson.ObjectID, assetID string) (*domain.User, error) {
	updated, err := s.users.RemoveFeaturedPhoto(ctx, id, assetID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrFeaturedPhotoMissing
		}
		return nil, fmt.Errorf("remove featured photo: %w", err)
	}
	s.images.destroy(ctx, assetID)
	return updated, nil
}

func (s *UserService) find(ctx context.Context, id bson.ObjectID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
