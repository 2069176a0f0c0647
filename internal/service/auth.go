package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/6045054-web/CHENGHUI/internal/gateway"
	"github.com/6045054-web/CHENGHUI/internal/logger"
	"github.com/6045054-web/CHENGHUI/internal/model"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type AuthService struct {
	store gateway.Store
	ws    *Workspace
}

func NewAuthService(store gateway.Store, ws *Workspace) *AuthService {
	return &AuthService{store: store, ws: ws}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.store.FindUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, ErrBadCredentials
	}
	if !IsHashed(u.Password) {
		// Rows not yet migrated by `dbinit -rehash` cannot log in.
		logger.Warn("login.unhashed_password", "uid", u.ID)
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return invalid(fmt.Sprintf("新密码至少 %d 位", minPasswordLen))
	}
	u, ok := s.ws.User(uid)
	if !ok {
		return ErrNotFound
	}
	current, err := s.store.FindUser(ctx, u.Username)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if current == nil {
		return ErrNotFound
	}
	if !IsHashed(current.Password) || bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(oldPassword)) != nil {
		return invalid("原密码不正确")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	current.Password = hash
	if err := s.store.SaveUser(ctx, *current); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.ws.putUser(*current)
	logger.Info("password.changed", "uid", uid)
	return nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// IsHashed reports whether s looks like a bcrypt hash.
func IsHashed(s string) bool {
	if !strings.HasPrefix(s, "$2a$") && !strings.HasPrefix(s, "$2b$") && !strings.HasPrefix(s, "$2y$") {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
