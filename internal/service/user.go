package service

import (
	"context"
	"encoding/base64"
	"errors"

	"slip-payment-backend/internal/apperr"
	"slip-payment-backend/internal/model"
	"slip-payment-backend/internal/repository"
)

const (
	MsgUserNotFound = "User not found"
)

type UserService interface {
	// RegisterVerified upserts the profile after a successful OTP validation
	// and returns the opaque bearer token (base64-encoded phone; the existing
	// scheme, kept as-is).
	RegisterVerified(ctx context.Context, phone, birthday string) (*model.UserProfile, string, error)
	FindByPhone(ctx context.Context, phone string) (*model.UserProfile, error)
	UpdateProfile(ctx context.Context, phone string, fields map[string]interface{}) (*model.UserProfile, error)
}

type userServiceImpl struct {
	userRepo repository.UserProfileRepository
}

func NewUserService(userRepo repository.UserProfileRepository) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

func (s *userServiceImpl) RegisterVerified(ctx context.Context, phone, birthday string) (*model.UserProfile, string, error) {
	profile := &model.UserProfile{
		Phone:    phone,
		Birthday: birthday,
	}
	if err := s.userRepo.Upsert(ctx, profile); err != nil {
		return nil, "", err
	}

	stored, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, "", err
	}

	token := base64.StdEncoding.EncodeToString([]byte(phone))
	return stored, token, nil
}

func (s *userServiceImpl) FindByPhone(ctx context.Context, phone string) (*model.UserProfile, error) {
	profile, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		}
		return nil, err
	}
	return profile, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, phone string, fields map[string]interface{}) (*model.UserProfile, error) {
	if err := s.userRepo.Update(ctx, phone, fields); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgUserNotFound, err)
		}
		return nil, err
	}
	return s.FindByPhone(ctx, phone)
}
