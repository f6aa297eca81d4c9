package accounts

import (
	"context"

	"github.com/dmitrijs2005/panvault/internal/server/models"
)

// Repository persists accounts and their encrypted PAN list. "Not found" is
// reported as common.ErrorNotFound, duplicate email as
// common.ErrorAlreadyExists; both are matched with errors.Is.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*models.Account, error)

	ListPANs(ctx context.Context, accountID string) ([]string, error)
	AddPAN(ctx context.Context, accountID, ciphertext string) error
	RemovePAN(ctx context.Context, accountID, ciphertext string) error
}
