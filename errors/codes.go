package errors

// ErrorCode is the machine-readable code carried by every AppError
type ErrorCode int32

const (
	ErrorCode_HTTP_OK                    ErrorCode = 0
	ErrorCode_INTERNAL                   ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT           ErrorCode = 2
	ErrorCode_NOT_FOUND                  ErrorCode = 3
	ErrorCode_INVALID_PAYLOAD            ErrorCode = 4
	ErrorCode_TOO_MANY_REQUESTS          ErrorCode = 5
	ErrorCode_ANALYSIS_UNAVAILABLE       ErrorCode = 100
	ErrorCode_PROVIDER_UNAVAILABLE       ErrorCode = 101
	ErrorCode_TRANSCRIPT_EMPTY           ErrorCode = 102
	ErrorCode_AI_ANALYSIS_FAILED         ErrorCode = 200
	ErrorCode_AI_SERVICE_UNAVAILABLE     ErrorCode = 201
	ErrorCode_AI_QUOTA_EXCEEDED          ErrorCode = 202
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 300
	ErrorCode_DB_QUERY_FAILED            ErrorCode = 400
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_TOO_MANY_REQUESTS:          "TOO_MANY_REQUESTS",
	ErrorCode_ANALYSIS_UNAVAILABLE:       "ANALYSIS_UNAVAILABLE",
	ErrorCode_PROVIDER_UNAVAILABLE:       "PROVIDER_UNAVAILABLE",
	ErrorCode_TRANSCRIPT_EMPTY:           "TRANSCRIPT_EMPTY",
	ErrorCode_AI_ANALYSIS_FAILED:         "AI_ANALYSIS_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_AI_QUOTA_EXCEEDED:          "AI_QUOTA_EXCEEDED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON bodies and log fields
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
