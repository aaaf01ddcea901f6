package httputil

// Machine-readable error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequestBody = "invalid_request_body"
	CodeValidationFailed   = "validation_failed"
	CodeInvalidAccountID   = "invalid_account_id"
	CodeEmailAlreadyExists = "email_already_exists"
	CodeAccountNotFound    = "account_not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountMismatch    = "account_mismatch"
	CodeNoChanges          = "no_changes"
	CodeUnchangedValue     = "unchanged_value"
	CodeCorruptCredentials = "corrupt_credentials"
	CodeInternalError      = "internal_error"

	CodeMissingAuth       = "missing_authentication"
	CodeInvalidAuthHeader = "invalid_authorization_header"
	CodeInvalidToken      = "invalid_token"
	CodeTokenExpired      = "token_expired"
)
