package account

import (
	"net/mail"
	"unicode/utf8"
)

const (
	minNameLength     = 2
	minPasswordLength = 6
	maxPasswordLength = 15
	maxEmailLength    = 254
)

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return ErrNameTooShort
	}
	return nil
}

// validateEmail accepts a bare addr-spec only; display names are rejected.
func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

func validateRegistration(in RegisterInput) error {
	if err := validateName(in.Name); err != nil {
		return err
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if in.ConfirmPassword != in.Password {
		return ErrPasswordsDiffer
	}
	return nil
}
