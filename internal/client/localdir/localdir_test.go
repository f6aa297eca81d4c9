package localdir

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/dmitrijs2005/panvault/internal/panx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "accounts.json")
}

func TestNewLocalDirectory_MissingFileIsEmpty(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)
	assert.Empty(t, d.accounts)
	assert.Nil(t, d.Active())
}

func TestSignup_FirstAccountIsAdmin(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)

	first, err := d.Signup("Alice@Example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "admin", first.Role)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.NotEmpty(t, first.ID)
	assert.Same(t, first, d.Active())

	second, err := d.Signup("bob@example.com", "pw2")
	require.NoError(t, err)
	assert.Equal(t, "user", second.Role)
}

func TestSignup_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)

	_, err = d.Signup("alice@example.com", "pw1")
	require.NoError(t, err)

	_, err = d.Signup("ALICE@example.com", "other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestLogin_OpaqueOnMismatch(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)

	_, err = d.Signup("alice@example.com", "pw1")
	require.NoError(t, err)
	d.Logout()

	_, err = d.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = d.Login("nobody@example.com", "pw1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	a, err := d.Login("ALICE@example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", a.Email)
	assert.Same(t, a, d.Active())
}

func TestLogin_MigratesLegacyPANShape(t *testing.T) {
	path := tempPath(t)

	legacy := `[{"id":"id-1","email":"alice@example.com","password":"pw1",` +
		`"role":"admin","panCards":["ABCDE1234F",{"pan":"FGHIJ5678K","name":"Alice"}],` +
		`"createdAt":"2024-01-02T03:04:05Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	d, err := NewLocalDirectory(path)
	require.NoError(t, err)

	a, err := d.Login("alice@example.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, []panx.Card{
		{Value: "ABCDE1234F", HolderName: panx.UnknownHolder},
		{Value: "FGHIJ5678K", HolderName: "Alice"},
	}, a.PANCards)

	// the rewritten file holds only the structured shape
	migrated, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(migrated, &raw))
	assert.JSONEq(t,
		`[{"pan":"ABCDE1234F","name":"Unknown"},{"pan":"FGHIJ5678K","name":"Alice"}]`,
		string(raw[0]["panCards"]))
}

func TestLogin_MigrationIsIdempotent(t *testing.T) {
	path := tempPath(t)

	legacy := `[{"id":"id-1","email":"alice@example.com","password":"pw1",` +
		`"role":"admin","panCards":["ABCDE1234F"],"createdAt":"2024-01-02T03:04:05Z"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	d, err := NewLocalDirectory(path)
	require.NoError(t, err)
	_, err = d.Login("alice@example.com", "pw1")
	require.NoError(t, err)

	afterFirst, err := os.ReadFile(path)
	require.NoError(t, err)

	d2, err := NewLocalDirectory(path)
	require.NoError(t, err)
	_, err = d2.Login("alice@example.com", "pw1")
	require.NoError(t, err)

	afterSecond, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, afterFirst, afterSecond)
}

func TestAddPAN(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)

	_, err = d.Signup("alice@example.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, d.AddPAN(" abcde1234f ", "Alice"))
	require.Equal(t, []panx.Card{{Value: "ABCDE1234F", HolderName: "Alice"}}, d.Active().PANCards)

	assert.ErrorIs(t, d.AddPAN("abcde1234f", "Other"), common.ErrorPANExists)
	assert.ErrorIs(t, d.AddPAN("not-a-pan", ""), common.ErrorInvalidPAN)

	require.NoError(t, d.AddPAN("FGHIJ5678K", ""))
	assert.Equal(t, panx.UnknownHolder, d.Active().PANCards[1].HolderName)
}

func TestAddPAN_RequiresSession(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)

	assert.ErrorIs(t, d.AddPAN("ABCDE1234F", ""), common.ErrorUnauthorized)
}

func TestRemovePAN(t *testing.T) {
	d, err := NewLocalDirectory(tempPath(t))
	require.NoError(t, err)

	_, err = d.Signup("alice@example.com", "pw1")
	require.NoError(t, err)
	require.NoError(t, d.AddPAN("ABCDE1234F", "Alice"))

	assert.ErrorIs(t, d.RemovePAN("FGHIJ5678K"), common.ErrorPANNotFound)

	require.NoError(t, d.RemovePAN("abcde1234f"))
	assert.Empty(t, d.Active().PANCards)
}

func TestDirectoryPersistsAcrossReload(t *testing.T) {
	path := tempPath(t)

	d, err := NewLocalDirectory(path)
	require.NoError(t, err)
	_, err = d.Signup("alice@example.com", "pw1")
	require.NoError(t, err)
	require.NoError(t, d.AddPAN("ABCDE1234F", "Alice"))

	d2, err := NewLocalDirectory(path)
	require.NoError(t, err)
	a, err := d2.Login("alice@example.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, []panx.Card{{Value: "ABCDE1234F", HolderName: "Alice"}}, a.PANCards)
}
