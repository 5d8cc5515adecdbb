// Package seed bootstraps the secretary account so a fresh install has a
// user who can register clubs.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/auth/password"
	"github.com/openclub/clubhub/internal/config"
	"gorm.io/gorm"
)

// EnsureSecretary creates the bootstrap secretary user unless one with the
// configured email already exists.
func EnsureSecretary(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapSecretaryEmail))
	if email == "" {
		return nil
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(cfg.BootstrapSecretaryPassword)
		if err != nil {
			return err
		}
		user = authdomain.User{
			ID:           node.Generate(),
			Email:        email,
			PasswordHash: hashed,
			DisplayName:  "Secretary",
			IsSecretary:  true,
			CreatedAt:    time.Now().UTC(),
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}
