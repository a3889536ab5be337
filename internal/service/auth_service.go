package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"table_booking/internal/domain"
	"table_booking/internal/repository"
	"table_booking/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var loginIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// Session is the outcome of a successful login
type Session struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, firstName, loginID, password string) (*domain.User, error)
	Login(ctx context.Context, loginID, password string) (*Session, error)
	UserInfo(ctx context.Context, userID uint) (*domain.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtSecret  string
	jwtTTL     time.Duration
	bcryptCost int
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtTTL:     jwtTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, firstName, loginID, password string) (*domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	loginID = strings.ToLower(strings.TrimSpace(loginID))
	switch {
	case firstName == "" || loginID == "" || password == "":
		return nil, domain.Validation("first_name, login_id and password are required")
	case len(firstName) > 100:
		return nil, domain.Validation("first_name is too long")
	case !loginIDPattern.MatchString(loginID):
		return nil, domain.Validation("login_id must be 3-32 letters, digits, dots, dashes or underscores")
	case len(password) < 8 || len(password) > 72:
		return nil, domain.Validation("password must be 8-72 characters")
	}

	if _, err := s.userRepo.FindByLoginID(ctx, loginID); err == nil {
		return nil, domain.ErrLoginTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup login: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{FirstName: firstName, LoginID: loginID, Password: string(hash), Role: domain.RoleUser}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrLoginTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "login_id": user.LoginID}).Info("User registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, loginID, password string) (*Session, error) {
	loginID = strings.ToLower(strings.TrimSpace(loginID))
	if loginID == "" || password == "" {
		return nil, domain.Validation("login_id and password are required")
	}

	user, err := s.userRepo.FindByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.WithField("login_id", loginID).Warn("Failed login attempt")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")
	return &Session{Token: token, User: user}, nil
}

func (s *authService) UserInfo(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
