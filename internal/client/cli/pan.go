package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/panvault/internal/common"
)

// PANAdd prompts for a PAN and an optional holder name and attaches the card
// to the active account.
func (a *App) PANAdd() error {
	value, err := getSimpleText(a.reader, "Enter PAN", os.Stdout)
	if err != nil {
		return err
	}

	holder, err := getSimpleText(a.reader, "Enter holder name (leave empty if unknown)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.dir.AddPAN(value, holder); err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidPAN):
			fmt.Println("Invalid PAN format, expected 5 letters, 4 digits, 1 letter")
		case errors.Is(err, common.ErrorPANExists):
			fmt.Println("This PAN is already on the account")
		default:
			fmt.Println("Could not add PAN:", err.Error())
		}
		return err
	}

	fmt.Println("PAN added")
	return nil
}

// PANRemove prompts for a PAN and detaches it from the active account.
func (a *App) PANRemove() error {
	value, err := getSimpleText(a.reader, "Enter PAN to remove", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.dir.RemovePAN(value); err != nil {
		if errors.Is(err, common.ErrorPANNotFound) {
			fmt.Println("This PAN is not on the account")
		} else {
			fmt.Println("Could not remove PAN:", err.Error())
		}
		return err
	}

	fmt.Println("PAN removed")
	return nil
}

// PANList prints the active account's cards.
func (a *App) PANList() {
	acc := a.dir.Active()
	if acc == nil {
		fmt.Println("Not logged in")
		return
	}
	if len(acc.PANCards) == 0 {
		fmt.Println("No PAN cards")
		return
	}
	for _, c := range acc.PANCards {
		fmt.Printf("%s  %s\n", c.Value, c.HolderName)
	}
}
