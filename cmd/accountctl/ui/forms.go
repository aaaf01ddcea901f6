package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/redmonkez12/account-api/internal/account"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func passwordLength(s string) error {
	if n := len([]rune(s)); n < 6 || n > 15 {
		return fmt.Errorf("password must have between 6 and 15 characters")
	}
	return nil
}

func passwordInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(value)
}

// RegisterForm asks for every registration field not already given on the
// command line.
func RegisterForm(name, email string) (*account.RegisterRequest, error) {
	req := &account.RegisterRequest{Name: name, Email: email}

	var fields []huh.Field
	if name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&req.Name).Validate(required("name")))
	}
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&req.Email).Validate(required("email")))
	}
	fields = append(fields,
		passwordInput("Password", &req.Password).Validate(passwordLength),
		passwordInput("Confirm password", &req.ConfirmPassword).Validate(func(s string) error {
			if s != req.Password {
				return fmt.Errorf("passwords must be the same")
			}
			return nil
		}),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run(); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return req, nil
}

func LoginForm(email string) (*account.LoginRequest, error) {
	req := &account.LoginRequest{Email: email}

	var fields []huh.Field
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&req.Email).Validate(required("email")))
	}
	fields = append(fields, passwordInput("Password", &req.Password).Validate(required("password")))

	if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run(); err != nil {
		return nil, err
	}

	req.Email = strings.TrimSpace(req.Email)
	return req, nil
}

// UpdateForm always asks for the current password, and for the new one twice
// when changePassword is set.
func UpdateForm(newName string, changePassword bool) (*account.UpdateRequest, error) {
	req := &account.UpdateRequest{NewName: newName}

	fields := []huh.Field{
		passwordInput("Current password", &req.CurrentPassword).Validate(required("current password")),
	}
	if changePassword {
		fields = append(fields,
			passwordInput("New password", &req.NewPassword).Validate(passwordLength),
			passwordInput("Confirm new password", &req.ConfirmNewPassword),
		)
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run(); err != nil {
		return nil, err
	}

	return req, nil
}

func PasswordPrompt(title string) (string, error) {
	var password string
	err := huh.NewForm(huh.NewGroup(
		passwordInput(title, &password).Validate(required("password")),
	)).WithTheme(huh.ThemeCatppuccin()).Run()
	return password, err
}

func Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().Title(question).Value(&ok).Run()
	return ok, err
}
