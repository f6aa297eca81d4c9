package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	acc := a.dir.Active()
	if acc == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", acc.Email)
}

// Root runs the interactive command loop until EOF or an explicit exit.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to PANVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("pv %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, pan add, pan remove, pan list, logout, exit")
			} else {
				fmt.Println("Available commands: signup, login, exit")
			}

		case "signup":
			a.Signup()
		case "login":
			a.Login()
		case "logout":
			a.Logout()
		case "whoami":
			a.Whoami()
		case "pan":
			if len(args) == 0 {
				fmt.Println("Usage: pan add|remove|list")
				continue
			}
			switch args[0] {
			case "add":
				a.PANAdd()
			case "remove":
				a.PANRemove()
			case "list":
				a.PANList()
			default:
				fmt.Println("Usage: pan add|remove|list")
			}
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
