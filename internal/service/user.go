package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/FinalGun/foodgram/internal/models"
)

// Subscription is one followed author with a capped slice of their recipes.
type Subscription struct {
	User         models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// UserService handles user reads, follow relationships and avatars.
type UserService struct {
	db     *gorm.DB
	images *ImageService
}

func NewUserService(db *gorm.DB, images *ImageService) *UserService {
	return &UserService{db: db, images: images}
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("username")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IsSubscribed reports whether the viewer follows the user; a nil viewer is
// never subscribed.
func (s *UserService) IsSubscribed(ctx context.Context, viewer *uuid.UUID, userID uuid.UUID) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", *viewer, userID).
		Count(&count).Error
	return count > 0, err
}

// Follow subscribes followerID to followingID. Self-follow is rejected
// before any lookup; duplicate follows conflict, with the composite unique
// index as the backstop under races.
func (s *UserService) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*models.User, error) {
	if followerID == followingID {
		return nil, ErrSelfFollow
	}
	target, err := s.GetUser(ctx, followingID)
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return target, nil
}

// Unfollow removes the subscription, failing with ErrNotFound when none
// exists.
func (s *UserService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if _, err := s.GetUser(ctx, followingID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscriptions lists the authors the user follows, ordered by username,
// each with up to recipesLimit of their recipes and the full recipe count.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]Subscription, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	subscriptions := make([]Subscription, 0, len(authors))
	for _, author := range authors {
		sub := Subscription{User: author}
		q := s.db.WithContext(ctx).Where("author_id = ?", author.ID).Order("name")
		if recipesLimit > 0 {
			q = q.Limit(recipesLimit)
		}
		if err := q.Find(&sub.Recipes).Error; err != nil {
			return nil, err
		}
		err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", author.ID).
			Count(&sub.RecipesCount).Error
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, sub)
	}
	return subscriptions, nil
}

// SetAvatar decodes the base64 data URI, stores the image and records the
// resulting location on the user.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	location, err := s.images.SaveDataURI(ctx, "users", dataURI)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", location).Error; err != nil {
		return nil, err
	}
	user.Avatar = location
	return user, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(user).Update("avatar", "").Error
}
