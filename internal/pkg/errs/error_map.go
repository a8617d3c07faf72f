/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Document, Plan, and Assistant Business Logic Errors
	ErrDocumentTypeInvalid:   {Code: ErrDocumentTypeInvalid, Message: "Unknown document type."},
	ErrDocumentNotFound:      {Code: ErrDocumentNotFound, Message: "Document not found."},
	ErrInsufficientTokens:    {Code: ErrInsufficientTokens, Message: "You have no tokens left. Upgrade your plan to keep generating documents."},
	ErrDocumentFieldMissing:  {Code: ErrDocumentFieldMissing, Message: "Required field %q is missing."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrPlanUnknown:           {Code: ErrPlanUnknown, Message: "Unknown pricing plan."},
	ErrPlanAlreadyCurrent:    {Code: ErrPlanAlreadyCurrent, Message: "You are already on this plan."},

	// 3xxx: User, Session, and Security Errors
	ErrPowChallengeRequired:   {Code: ErrPowChallengeRequired, Message: "Verification required. Please try again."},
	ErrPowChallengeInvalid:    {Code: ErrPowChallengeInvalid, Message: "Verification failed. Please try again."},
	ErrPowChallengeInternal:   {Code: ErrPowChallengeInternal, Message: "Verification service error. Please try again later."},
	ErrAlreadyLoggedIn:        {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidEmail:           {Code: ErrInvalidEmail, Message: "Please enter a valid email address."},
	ErrInvalidPassword:        {Code: ErrInvalidPassword, Message: "Password must be between 6 and 72 characters."},
	ErrEmailAlreadyRegistered: {Code: ErrEmailAlreadyRegistered, Message: "An account with this email already exists."},
	ErrInvalidCredentials:     {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrUserNotFound:           {Code: ErrUserNotFound, Message: "Account not found."},
	ErrUnauthorized:           {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrSessionExpired:         {Code: ErrSessionExpired, Message: "Your session has expired. Please sign in again.", Status: http.StatusUnauthorized},
	ErrProfileUpdateFailed:    {Code: ErrProfileUpdateFailed, Message: "Could not save your changes. Please try again."},

	// 5xxx: Internal System Errors
	ErrUnknown:               {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrArtifactStorageFailed: {Code: ErrArtifactStorageFailed, Message: "Document storage failed. Please try again."},
}
