// Package services contains server-side business logic. This file
// implements AccountService: registration, login, token issuance, and
// management of the encrypted PAN list.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/dmitrijs2005/panvault/internal/cryptox"
	"github.com/dmitrijs2005/panvault/internal/dbx"
	"github.com/dmitrijs2005/panvault/internal/logging"
	"github.com/dmitrijs2005/panvault/internal/panx"
	"github.com/dmitrijs2005/panvault/internal/server/auth"
	"github.com/dmitrijs2005/panvault/internal/server/config"
	"github.com/dmitrijs2005/panvault/internal/server/models"
	"github.com/dmitrijs2005/panvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/panvault/internal/server/shared/db"
	"github.com/google/uuid"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// verifiedHolders is a fixed demo registry mapping known PANs to holder
// names for the verification endpoint.
var verifiedHolders = map[string]string{
	"ABCDE1234F": "Rajesh Kumar",
	"FGHIJ5678K": "Priya Sharma",
	"LMNOP9012Q": "Amit Patel",
	"RSTUV3456W": "Sneha Reddy",
	"WXYZA7890B": "Vikram Singh",
}

// AuthResult bundles the account and its freshly issued session token.
type AuthResult struct {
	Account *models.Account
	Token   string
}

// Profile is an account plus its decrypted PAN list. Entries that fail to
// decrypt (rotated key, tampering) are omitted, not surfaced as errors.
type Profile struct {
	Account *models.Account
	PANs    []string
}

// AccountService provides authentication and PAN-management operations:
//   - Register: create accounts (first account becomes admin) and mint tokens
//   - Login: verify credentials and mint tokens
//   - Profile: account plus decrypted PAN list
//   - AddPAN / RemovePAN: mutate the encrypted PAN list
//   - VerifyPAN: look up a holder name in the demo registry
//   - Accounts: admin-only listing
type AccountService struct {
	manager       db.Manager
	cipher        *cryptox.FieldCipher
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	passwordCost  int

	// repoFor is a seam for tests; defaults to the Postgres repository.
	repoFor func(dbx.DBTX) accounts.Repository
}

// NewAccountService constructs an AccountService using the connection
// manager, the field cipher, and server config.
func NewAccountService(m db.Manager, cipher *cryptox.FieldCipher, cfg *config.Config, l logging.Logger) *AccountService {
	return &AccountService{
		manager:       m,
		cipher:        cipher,
		logger:        l.With("module", "account_service"),
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenValidity: cfg.TokenValidityDuration,
		passwordCost:  cfg.PasswordCost,
		repoFor: func(tx dbx.DBTX) accounts.Repository {
			return accounts.NewPostgresRepository(tx)
		},
	}
}

// Register validates the input, creates the account, and returns it with a
// session token. The first account ever created is the admin; everyone
// after that is a regular user. Duplicate emails (case-insensitive) yield
// common.ErrorAlreadyExists.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := cryptox.HashPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	conn, err := s.manager.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db connection error: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	// The role decision and the insert share one transaction so two
	// concurrent first signups cannot both become admin.
	if err := dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repoFor(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		account.Role = models.RoleUser
		if count == 0 {
			account.Role = models.RoleAdmin
		}

		_, err = repo.Create(ctx, account)
		return err
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	return s.authResult(account)
}

// Login verifies the credentials and returns the account with a fresh
// token. Unknown email and wrong password are indistinguishable to the
// caller: both yield common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	conn, err := s.manager.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db connection error: %w", err)
	}

	account, err := s.repoFor(conn).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.CheckPassword([]byte(password), account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.authResult(account)
}

// Profile returns the account and its decrypted PAN list. Entries that no
// longer decrypt are dropped from the result.
func (s *AccountService) Profile(ctx context.Context, accountID string) (*Profile, error) {
	conn, err := s.manager.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db connection error: %w", err)
	}
	repo := s.repoFor(conn)

	account, err := repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ciphertexts, err := repo.ListPANs(ctx, accountID)
	if err != nil {
		return nil, err
	}

	pans := make([]string, 0, len(ciphertexts))
	for _, ct := range ciphertexts {
		plain, err := s.cipher.Decrypt(ct)
		if err != nil {
			s.logger.Warn(ctx, "dropping undecryptable PAN entry", "account_id", accountID)
			continue
		}
		pans = append(pans, plain)
	}

	return &Profile{Account: account, PANs: pans}, nil
}

// AddPAN validates and normalizes the PAN, rejects duplicates within the
// account, and appends the encrypted value. Duplicate detection decrypts
// the stored entries and compares plaintexts; entries that fail to decrypt
// are treated as non-matches since the key may have rotated.
func (s *AccountService) AddPAN(ctx context.Context, accountID, pan string) error {
	pan = panx.Normalize(pan)
	if err := panx.Validate(pan); err != nil {
		return err
	}

	conn, err := s.manager.Conn(ctx)
	if err != nil {
		return fmt.Errorf("db connection error: %w", err)
	}

	return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repoFor(tx)

		if _, err := repo.GetByID(ctx, accountID); err != nil {
			return err
		}

		ciphertexts, err := repo.ListPANs(ctx, accountID)
		if err != nil {
			return err
		}
		for _, ct := range ciphertexts {
			plain, err := s.cipher.Decrypt(ct)
			if err != nil {
				continue
			}
			if plain == pan {
				return common.ErrorPANExists
			}
		}

		encrypted, err := s.cipher.Encrypt(pan)
		if err != nil {
			return common.ErrorInternal
		}
		return repo.AddPAN(ctx, accountID, encrypted)
	})
}

// RemovePAN locates the stored ciphertext whose plaintext matches the given
// PAN and removes exactly that entry. No match yields
// common.ErrorPANNotFound.
func (s *AccountService) RemovePAN(ctx context.Context, accountID, pan string) error {
	pan = panx.Normalize(pan)

	conn, err := s.manager.Conn(ctx)
	if err != nil {
		return fmt.Errorf("db connection error: %w", err)
	}

	return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repoFor(tx)

		ciphertexts, err := repo.ListPANs(ctx, accountID)
		if err != nil {
			return err
		}

		for _, ct := range ciphertexts {
			plain, err := s.cipher.Decrypt(ct)
			if err != nil {
				continue
			}
			if plain == pan {
				return repo.RemovePAN(ctx, accountID, ct)
			}
		}
		return common.ErrorPANNotFound
	})
}

// VerifyPAN looks the PAN up in the demo holder registry. The second return
// value reports whether a holder name was found.
func (s *AccountService) VerifyPAN(pan string) (string, bool, error) {
	pan = panx.Normalize(pan)
	if err := panx.Validate(pan); err != nil {
		return "", false, err
	}
	name, ok := verifiedHolders[pan]
	return name, ok, nil
}

// Accounts lists all accounts. Authorization is the caller's concern; the
// HTTP layer gates this behind the admin role.
func (s *AccountService) Accounts(ctx context.Context) ([]*models.Account, error) {
	conn, err := s.manager.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db connection error: %w", err)
	}
	return s.repoFor(conn).List(ctx)
}

func (s *AccountService) authResult(account *models.Account) (*AuthResult, error) {
	token, err := auth.GenerateToken(account.ID, account.Email, string(account.Role), s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Account: account, Token: token}, nil
}
