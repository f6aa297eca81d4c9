// Package localdir implements the client-local account directory: a single
// JSON file of demo accounts with plaintext credentials, kept fully separate
// from the server path. It exists so the CLI can be exercised without a
// backend; nothing in it is suitable for real secrets.
package localdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/dmitrijs2005/panvault/internal/panx"
	"github.com/google/uuid"
)

// Account is one directory entry. PANCards absorbs the legacy bare-string
// shape on load via panx.Card and is always written back structured.
type Account struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      string      `json:"role"`
	PANCards  []panx.Card `json:"panCards"`
	CreatedAt time.Time   `json:"createdAt"`
}

// LocalDirectory manages the on-disk account file and the active session.
// It is not safe for concurrent use; the CLI is single-threaded.
type LocalDirectory struct {
	path     string
	accounts []*Account
	active   *Account
}

// NewLocalDirectory loads the directory file at path. A missing file is an
// empty directory, not an error.
func NewLocalDirectory(path string) (*LocalDirectory, error) {
	d := &LocalDirectory{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("directory read error: %w", err)
	}

	if err := json.Unmarshal(data, &d.accounts); err != nil {
		return nil, fmt.Errorf("directory parse error: %w", err)
	}

	return d, nil
}

// save writes the whole directory back. Marshalling is deterministic, so
// saving an unchanged directory reproduces the file byte for byte.
func (d *LocalDirectory) save() error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o700); err != nil {
		return fmt.Errorf("directory write error: %w", err)
	}

	data, err := json.MarshalIndent(d.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("directory write error: %w", err)
	}

	if err := os.WriteFile(d.path, data, 0o600); err != nil {
		return fmt.Errorf("directory write error: %w", err)
	}
	return nil
}

func (d *LocalDirectory) findByEmail(email string) *Account {
	for _, a := range d.accounts {
		if strings.EqualFold(a.Email, email) {
			return a
		}
	}
	return nil
}

// Signup creates a new account and makes it the active session. The first
// account in an empty directory becomes admin, every later one a regular
// user. A duplicate email (compared case-insensitively) returns
// common.ErrorAlreadyExists.
func (d *LocalDirectory) Signup(email string, password string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	if d.findByEmail(email) != nil {
		return nil, common.ErrorAlreadyExists
	}

	role := "user"
	if len(d.accounts) == 0 {
		role = "admin"
	}

	a := &Account{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  password,
		Role:      role,
		PANCards:  []panx.Card{},
		CreatedAt: time.Now().UTC(),
	}

	d.accounts = append(d.accounts, a)
	if err := d.save(); err != nil {
		return nil, err
	}

	d.active = a
	return a, nil
}

// Login matches email (case-insensitively) and password (exactly) and makes
// the account the active session. Any mismatch returns
// common.ErrorUnauthorized without saying which part was wrong.
//
// On success the directory is persisted back: entries loaded from the legacy
// bare-string PAN shape were normalized during unmarshalling, and writing
// them out makes that migration durable. Repeating a login on an already
// migrated file rewrites identical bytes.
func (d *LocalDirectory) Login(email string, password string) (*Account, error) {
	a := d.findByEmail(strings.TrimSpace(email))
	if a == nil || a.Password != password {
		return nil, common.ErrorUnauthorized
	}

	if err := d.save(); err != nil {
		return nil, err
	}

	d.active = a
	return a, nil
}

// Logout drops the active session. The directory file is untouched.
func (d *LocalDirectory) Logout() {
	d.active = nil
}

// Active returns the logged-in account, or nil.
func (d *LocalDirectory) Active() *Account {
	return d.active
}

// AddPAN validates and attaches a PAN to the active account. An empty holder
// name is recorded as "Unknown". Duplicates within the account return
// common.ErrorPANExists.
func (d *LocalDirectory) AddPAN(value string, holderName string) error {
	if d.active == nil {
		return common.ErrorUnauthorized
	}

	value = panx.Normalize(value)
	if err := panx.Validate(value); err != nil {
		return err
	}

	for _, c := range d.active.PANCards {
		if c.Value == value {
			return common.ErrorPANExists
		}
	}

	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		holderName = panx.UnknownHolder
	}

	d.active.PANCards = append(d.active.PANCards, panx.Card{Value: value, HolderName: holderName})
	return d.save()
}

// RemovePAN detaches a PAN from the active account. A value that is not
// present returns common.ErrorPANNotFound.
func (d *LocalDirectory) RemovePAN(value string) error {
	if d.active == nil {
		return common.ErrorUnauthorized
	}

	value = panx.Normalize(value)

	for i, c := range d.active.PANCards {
		if c.Value == value {
			d.active.PANCards = append(d.active.PANCards[:i], d.active.PANCards[i+1:]...)
			return d.save()
		}
	}
	return common.ErrorPANNotFound
}
