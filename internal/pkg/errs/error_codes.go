/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Document, Plan, and Assistant Business Logic Errors
const (
	// ErrDocumentTypeInvalid indicates that an unknown document type was requested.
	ErrDocumentTypeInvalid = 2101

	// ErrDocumentNotFound indicates that the requested document does not exist or belongs to another user.
	ErrDocumentNotFound = 2102

	// ErrInsufficientTokens indicates that the user's token balance cannot cover a generation.
	ErrInsufficientTokens = 2103

	// ErrDocumentFieldMissing indicates that a required template field was left empty.
	ErrDocumentFieldMissing = 2104

	// ErrMessageContentTooLong indicates that an assistant message exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrPlanUnknown indicates that the selected pricing plan does not exist.
	ErrPlanUnknown = 2301

	// ErrPlanAlreadyCurrent indicates that the user already subscribes to the selected plan.
	ErrPlanAlreadyCurrent = 2302
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrPowChallengeRequired indicates the client must complete a Proof-of-Work challenge first.
	ErrPowChallengeRequired = 3001

	// ErrPowChallengeInvalid indicates that the PoW proof provided by the client is invalid or incorrect.
	ErrPowChallengeInvalid = 3002

	// ErrPowChallengeInternal indicates an internal error during PoW challenge generation or validation.
	ErrPowChallengeInternal = 3003

	// ErrAlreadyLoggedIn indicates a sign-in or sign-up attempt from an already authenticated session.
	ErrAlreadyLoggedIn = 3101

	// ErrInvalidEmail indicates that the supplied email address is not acceptable.
	ErrInvalidEmail = 3102

	// ErrInvalidPassword indicates that the supplied password does not satisfy the length rules.
	ErrInvalidPassword = 3103

	// ErrEmailAlreadyRegistered indicates a duplicate sign-up for an existing account.
	ErrEmailAlreadyRegistered = 3104

	// ErrInvalidCredentials indicates that email/password verification failed at the identity provider.
	ErrInvalidCredentials = 3105

	// ErrUserNotFound indicates that the identity provider has no account for the session.
	ErrUserNotFound = 3106

	// ErrUnauthorized indicates a request to a protected resource without a valid session.
	ErrUnauthorized = 3107

	// ErrSessionExpired indicates that the server-side session is gone and a new sign-in is required.
	ErrSessionExpired = 3108

	// ErrProfileUpdateFailed indicates that the identity provider rejected a metadata update.
	ErrProfileUpdateFailed = 3109
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrArtifactStorageFailed indicates that storing or fetching a document artifact failed.
	ErrArtifactStorageFailed = 5001
)
