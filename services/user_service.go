package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hediye.link/configs/configslog"
	"hediye.link/models"
	"hediye.link/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserServiceError özel servis hataları.
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound       UserServiceError = "kullanıcı bulunamadı"
	ErrUserEmailTaken     UserServiceError = "bu e-posta zaten kayıtlı"
	ErrUserInvalidInput   UserServiceError = "geçersiz girdi verisi"
	ErrUserInvalidLogin   UserServiceError = "e-posta veya şifre hatalı"
	ErrUserHashingFailed  UserServiceError = "şifre oluşturulamadı"
	ErrUserCreationFailed UserServiceError = "kullanıcı oluşturulamadı"
)

// RegisterInput kayıt isteği.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// IUserService kullanıcı işlemleri için arayüz.
type IUserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateNotificationPrefs(ctx context.Context, userID uint, notificationsEnabled, emailNotifications bool) error
}

// UserService IUserService arayüzünü uygular.
type UserService struct {
	repo repositories.IUserRepository
}

// NewUserService yeni bir UserService örneği oluşturur.
func NewUserService(db *gorm.DB) IUserService {
	return &UserService{repo: repositories.NewUserRepository(db)}
}

// Register yeni kullanıcı kaydeder (bcrypt ile).
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: geçerli bir e-posta gerekli", ErrUserInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: şifre en az 8 karakter olmalı", ErrUserInvalidInput)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrUserHashingFailed
	}

	user := models.User{
		FirstName:            strings.TrimSpace(input.FirstName),
		LastName:             strings.TrimSpace(input.LastName),
		Email:                email,
		PasswordHash:         string(hashed),
		NotificationsEnabled: true,
		EmailNotifications:   true,
	}
	user.FullName = strings.TrimSpace(user.FirstName + " " + user.LastName)

	if err := s.repo.Create(ctx, &user); err != nil {
		configslog.SLog.Errorf("Kullanıcı oluşturulamadı (%s): %v", email, err)
		return nil, ErrUserCreationFailed
	}
	configslog.SLog.Infof("Yeni kullanıcı kaydedildi: ID %d", user.ID)
	return &user, nil
}

// Authenticate e-posta + şifre doğrular.
// Bulunamayan kullanıcı ile yanlış şifre aynı hatayı döndürür.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserInvalidLogin
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUserInvalidLogin
	}
	return user, nil
}

// GetUserByID kullanıcıyı ID ile getirir.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateNotificationPrefs bildirim tercih bayraklarını günceller.
func (s *UserService) UpdateNotificationPrefs(ctx context.Context, userID uint, notificationsEnabled, emailNotifications bool) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.NotificationsEnabled = notificationsEnabled
	user.EmailNotifications = emailNotifications
	return s.repo.Update(models.ContextWithUserID(ctx, userID), user)
}

var _ IUserService = (*UserService)(nil)
