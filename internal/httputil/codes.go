package httputil

// Machine-readable error codes returned in ErrorResponse.Code
const (
	// Request
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNoFieldsToUpdate   = "NO_FIELDS_TO_UPDATE"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"

	// Authentication
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Accounts
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUpdateFailed       = "UPDATE_FAILED"
	CodeDeleteFailed       = "DELETE_FAILED"

	CodeInternalError = "INTERNAL_ERROR"
)
