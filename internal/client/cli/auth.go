package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/panvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Signup prompts for an email and password and creates a local account.
// The first account in an empty directory becomes admin. The password byte
// slice is wiped before returning.
func (a *App) Signup() error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.dir.Signup(email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			fmt.Println("An account with this email already exists")
			return err
		}
		fmt.Println("Signup failed:", err.Error())
		return err
	}

	fmt.Printf("Signed up as %s (%s)\n", acc.Email, acc.Role)
	return nil
}

// Login prompts for credentials and opens a session against the local
// directory. Mismatches are reported without saying which part was wrong.
func (a *App) Login() error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.dir.Login(email, string(password))
	if err != nil {
		fmt.Println("Invalid email or password")
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", acc.Email, acc.Role)
	return nil
}

// Logout drops the active session.
func (a *App) Logout() {
	a.dir.Logout()
	fmt.Println("Logged out")
}

// Whoami prints the active account, if any.
func (a *App) Whoami() {
	acc := a.dir.Active()
	if acc == nil {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("%s (%s), %d PAN card(s)\n", acc.Email, acc.Role, len(acc.PANCards))
}
