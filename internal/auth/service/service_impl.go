package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/auth/password"
	"github.com/openclub/clubhub/internal/clock"
	"github.com/openclub/clubhub/internal/config"
	dbpkg "github.com/openclub/clubhub/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	genID *snowflake.Node
	clk   clock.Clock
}

func NewService(db *gorm.DB, log *zap.Logger, cfg config.Config, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		db:    db,
		log:   log.Named("auth.service"),
		cfg:   cfg,
		genID: genID,
		clk:   clk,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.ErrInvalidPassword
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hashed,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		CreatedAt:    s.clk.Now(),
	}
	if user.DisplayName == "" {
		user.DisplayName = email
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	return &user, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(user.PasswordHash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	expiresAt := s.clk.Now().Add(s.cfg.AuthTokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(s.clk.Now()),
		Issuer:    s.cfg.AppName,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.AuthJWTSecret))
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *service) Verify(ctx context.Context, raw string) (*domain.User, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.cfg.AuthJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil || userID == 0 {
		return nil, domain.ErrInvalidToken
	}

	return s.GetByID(ctx, userID)
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return "", domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return trimmed, nil
}
