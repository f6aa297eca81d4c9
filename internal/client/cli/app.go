// Package cli implements the interactive PANVault client: a small REPL over
// the local account directory.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/panvault/internal/client/config"
	"github.com/dmitrijs2005/panvault/internal/client/localdir"
)

type App struct {
	config *config.Config
	dir    *localdir.LocalDirectory
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	dir, err := localdir.NewLocalDirectory(c.DirectoryPath)
	if err != nil {
		return nil, err
	}

	return &App{config: c, dir: dir, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.dir.Active() != nil
}
