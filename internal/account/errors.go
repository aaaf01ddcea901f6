package account

import "errors"

var (
	// ErrValidation matches every input validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrConflict matches updates that would not change anything.
	ErrConflict = errors.New("conflicting update")

	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountMismatch    = errors.New("account does not belong to the token holder")
	// ErrCorruptCredentials means the stored password hash is missing or unparseable.
	ErrCorruptCredentials = errors.New("stored credentials are invalid")
)

// Validation failures. Their text is returned to the client as is.
var (
	ErrNameRequired           = validationError("Name is required")
	ErrNameTooShort           = validationError("Name must have at least 2 characters")
	ErrEmailRequired          = validationError("Email is required")
	ErrInvalidEmail           = validationError("Invalid email format")
	ErrPasswordRequired       = validationError("Password is required")
	ErrPasswordLength         = validationError("Password must have between 6 and 15 characters")
	ErrPasswordsDiffer        = validationError("Passwords must be the same")
	ErrCurrentPasswordMissing = validationError("To update your data, please fill your current password.")
	ErrNothingToUpdate        = validationError("Please, update at least one data.")
	ErrConfirmationMissing    = validationError("To update your password, it's necessary to confirm it")
	ErrConfirmationDiffers    = validationError("Your new password and the confirmation don't combine.")
	ErrDeletePasswordMissing  = validationError("To delete your account, please confirm your password")

	ErrSamePassword = conflictError("Your new password and your current one are the same. Please choose another one.")
	ErrSameName     = conflictError("Your new name is identical to your current name. Please choose a different one.")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string        { return e.msg }
func (e *kindError) Is(target error) bool { return target == e.kind }

func validationError(msg string) error { return &kindError{msg: msg, kind: ErrValidation} }
func conflictError(msg string) error   { return &kindError{msg: msg, kind: ErrConflict} }
