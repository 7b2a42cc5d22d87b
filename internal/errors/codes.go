package errors

// ErrorCode represents a standardized error code used throughout the dashboard and proxy
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
	ValidationSplitMismatch ErrorCode = "VALIDATION_008"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound         ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount    ErrorCode = "TRANSACTION_002"
	TransactionValidationFailed ErrorCode = "TRANSACTION_005"
	TransactionLoadFailed       ErrorCode = "TRANSACTION_007"
	TransactionUpdateFailed     ErrorCode = "TRANSACTION_008"
	TransactionUploadFailed     ErrorCode = "TRANSACTION_009"
	TransactionUploadQueued     ErrorCode = "TRANSACTION_010"
)

// Offline error codes (OFFLINE_*)
const (
	OfflineUnavailable ErrorCode = "OFFLINE_001"
	OfflineNoCache     ErrorCode = "OFFLINE_002"
)

// Cache error codes (CACHE_*)
const (
	CacheInstallFailed ErrorCode = "CACHE_001"
	CacheWriteFailed   ErrorCode = "CACHE_002"
)

// Sync error codes (SYNC_*)
const (
	SyncUnknownTag     ErrorCode = "SYNC_001"
	SyncReplayFailed   ErrorCode = "SYNC_002"
	SyncInvalidMessage ErrorCode = "SYNC_003"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemNotFound           ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidDate:   "Invalid date format or range",
	ValidationSplitMismatch: "Split amounts must add up to the original transaction amount",

	// Transaction errors
	TransactionNotFound:         "Transaction not found",
	TransactionInvalidAmount:    "Invalid transaction amount",
	TransactionValidationFailed: "Transaction validation failed",
	TransactionLoadFailed:       "Failed to load transactions",
	TransactionUpdateFailed:     "Failed to save transaction",
	TransactionUploadFailed:     "Failed to upload receipt",
	TransactionUploadQueued:     "You are offline. The receipt upload was queued and will be sent when the connection returns",

	// Offline errors
	OfflineUnavailable: "You are offline and this content is not available",
	OfflineNoCache:     "You are offline and no cached copy exists",

	// Cache errors
	CacheInstallFailed: "Failed to cache static assets",
	CacheWriteFailed:   "Failed to write cache entry",

	// Sync errors
	SyncUnknownTag:     "Unknown sync tag",
	SyncReplayFailed:   "Failed to replay queued request",
	SyncInvalidMessage: "Invalid control message",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemNotFound:           "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
