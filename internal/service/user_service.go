package service

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/uiineed/todo-service/internal/domain/errors"
	"github.com/uiineed/todo-service/internal/domain/models"
	"github.com/uiineed/todo-service/internal/domain/repository"
)

// UserService resolves WeChat profiles to local identities.
type UserService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates the identity resolver.
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// FindOrCreateByOpenID looks a user up by WeChat openid, creating one on
// first login. An existing user's profile fields are overwritten from the
// fresh WeChat profile; openid, status and creation time stay untouched.
func (s *UserService) FindOrCreateByOpenID(ctx context.Context, info *models.WeChatUserInfo) (*models.User, error) {
	user, err := s.userRepo.FindByWeChatOpenID(ctx, info.OpenID)
	if err == nil {
		applyProfile(user, info)
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("updated user from wechat profile",
			zap.Int64("user_id", user.ID), zap.String("nickname", info.Nickname))
		return user, nil
	}
	if !stderrors.Is(err, errors.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &models.User{
		WeChatOpenID:  info.OpenID,
		LastLoginTime: &now,
		LoginCount:    1,
		Status:        models.UserStatusActive,
	}
	applyProfile(user, info)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("created user from wechat profile",
		zap.Int64("user_id", user.ID), zap.String("nickname", info.Nickname))
	return user, nil
}

// RecordLogin bumps the login counter and last-login timestamp.
func (s *UserService) RecordLogin(ctx context.Context, userID int64) error {
	return s.userRepo.RecordLogin(ctx, userID)
}

// FindByID fetches a user by local id.
func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func applyProfile(user *models.User, info *models.WeChatUserInfo) {
	user.WeChatUnionID = info.UnionID
	user.Nickname = info.Nickname
	user.AvatarURL = info.HeadImgURL
	user.Gender = info.Sex
	user.Country = info.Country
	user.Province = info.Province
	user.City = info.City
	user.Language = info.Language
}
