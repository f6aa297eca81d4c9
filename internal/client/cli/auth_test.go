package cli

import (
	"bufio"
	"io"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/panvault/internal/client/config"
	"github.com/dmitrijs2005/panvault/internal/client/localdir"
	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInput replaces the interactive input seams with queued answers and a
// fixed password. The originals are restored via t.Cleanup.
func stubInput(t *testing.T, answers []string, password string) {
	t.Helper()

	origText := getSimpleText
	origPassword := getPassword
	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPassword
	})

	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if len(answers) == 0 {
			t.Fatalf("unexpected prompt: %s", prompt)
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	getPassword = func(w io.Writer) ([]byte, error) {
		return []byte(password), nil
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{DirectoryPath: filepath.Join(t.TempDir(), "accounts.json")}
	dir, err := localdir.NewLocalDirectory(cfg.DirectoryPath)
	require.NoError(t, err)

	return &App{config: cfg, dir: dir}
}

func TestSignupCommand(t *testing.T) {
	a := newTestApp(t)
	stubInput(t, []string{"alice@example.com"}, "pw1")

	require.NoError(t, a.Signup())

	require.True(t, a.isLoggedIn())
	acc := a.dir.Active()
	assert.Equal(t, "alice@example.com", acc.Email)
	assert.Equal(t, "admin", acc.Role)
}

func TestSignupCommand_Duplicate(t *testing.T) {
	a := newTestApp(t)

	stubInput(t, []string{"alice@example.com"}, "pw1")
	require.NoError(t, a.Signup())

	stubInput(t, []string{"alice@example.com"}, "other")
	assert.ErrorIs(t, a.Signup(), common.ErrorAlreadyExists)
}

func TestLoginCommand(t *testing.T) {
	a := newTestApp(t)

	stubInput(t, []string{"alice@example.com"}, "pw1")
	require.NoError(t, a.Signup())
	a.Logout()
	require.False(t, a.isLoggedIn())

	stubInput(t, []string{"alice@example.com"}, "wrong")
	assert.ErrorIs(t, a.Login(), common.ErrorUnauthorized)
	assert.False(t, a.isLoggedIn())

	stubInput(t, []string{"alice@example.com"}, "pw1")
	require.NoError(t, a.Login())
	assert.True(t, a.isLoggedIn())
}

func TestPANCommands(t *testing.T) {
	a := newTestApp(t)

	stubInput(t, []string{"alice@example.com"}, "pw1")
	require.NoError(t, a.Signup())

	stubInput(t, []string{"abcde1234f", "Alice"}, "")
	require.NoError(t, a.PANAdd())

	acc := a.dir.Active()
	require.Len(t, acc.PANCards, 1)
	assert.Equal(t, "ABCDE1234F", acc.PANCards[0].Value)
	assert.Equal(t, "Alice", acc.PANCards[0].HolderName)

	stubInput(t, []string{"ABCDE1234F", "Other"}, "")
	assert.ErrorIs(t, a.PANAdd(), common.ErrorPANExists)

	stubInput(t, []string{"FGHIJ5678K"}, "")
	assert.ErrorIs(t, a.PANRemove(), common.ErrorPANNotFound)

	stubInput(t, []string{"ABCDE1234F"}, "")
	require.NoError(t, a.PANRemove())
	assert.Empty(t, a.dir.Active().PANCards)
}
