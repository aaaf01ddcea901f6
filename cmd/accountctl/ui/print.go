package ui

import (
	"fmt"
	"time"

	"github.com/redmonkez12/account-api/internal/account"
)

// PrintProfile prints a profile as an aligned block.
func PrintProfile(p account.Profile) {
	fmt.Println(titleStyle.Render("Account " + p.ID))
	fmt.Printf("  Name:    %s\n", p.Name)
	fmt.Printf("  Email:   %s\n", p.Email)
	if !p.CreatedAt.IsZero() {
		fmt.Printf("  Created: %s\n", subtleStyle.Render(p.CreatedAt.Local().Format(time.RFC1123)))
		fmt.Printf("  Updated: %s\n", subtleStyle.Render(p.UpdatedAt.Local().Format(time.RFC1123)))
	}
	fmt.Println()
}

// PrintToken prints a freshly issued token and how to reuse it.
func PrintToken(id, token string) {
	fmt.Println(successStyle.Render("Logged in as " + id))
	fmt.Println(tokenStyle.Render(token))
	fmt.Println(subtleStyle.Render("export ACCOUNTCTL_TOKEN=<token> to use it with profile, update and delete"))
}

func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("Error: " + msg))
}
