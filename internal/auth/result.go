// ABOUTME: Result type returned by credential store operations
// ABOUTME: Backend failures are normalized to a kind plus one readable message

package auth

const (
	DefaultLoginMessage    = "Login gagal. Periksa username/email dan password."
	DefaultRegisterMessage = "Registrasi gagal."
	MissingSocialToken     = "Token login sosial tidak ditemukan."
)

// ErrorKind classifies a failed credential operation
type ErrorKind int

const (
	KindNone ErrorKind = iota
	InvalidCredentials
	ValidationFailed
	NetworkOrServerError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case ValidationFailed:
		return "validation_failed"
	case NetworkOrServerError:
		return "network_or_server_error"
	default:
		return "none"
	}
}

// Result is the outcome of Login, Register and CaptureSocialCallback.
// Message is ready to show to a user as-is.
type Result struct {
	OK      bool
	Message string
	Kind    ErrorKind
}

func success() Result {
	return Result{OK: true}
}

func failure(kind ErrorKind, message string) Result {
	return Result{Kind: kind, Message: message}
}
