// Package users is the local account registry: the accounts that may sign in
// on this device.
package users

import (
	"context"

	"github.com/dmitrijs2005/retrorevive/internal/client/models"
)

// Repository stores accounts. Emails compare case-insensitively.
//
// GetByEmail returns common.ErrorNotFound when no account matches and Create
// returns common.ErrorAlreadyExists when the email is taken.
type Repository interface {
	Create(ctx context.Context, acc *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
}
