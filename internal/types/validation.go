package types

// ErrorKind classifies failures across the credential, provider and store boundaries.
type ErrorKind string

// Error classifications.
const (
	KindNone              ErrorKind = ""
	KindMissingCredential ErrorKind = "MissingCredential"
	KindPermissionDenied  ErrorKind = "PermissionDenied"
	KindQuotaExceeded     ErrorKind = "QuotaExceeded"
	KindUnexpectedStatus  ErrorKind = "UnexpectedStatus"
	KindTransportError    ErrorKind = "TransportError"
	KindStoreError        ErrorKind = "StoreError"
)

// ValidationResult describes whether the Places API key currently works.
type ValidationResult struct {
	Valid       bool           `json:"valid"`
	Kind        ErrorKind      `json:"error_type,omitempty"`
	Error       string         `json:"error,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	Remediation []string       `json:"remediation,omitempty"`
}
