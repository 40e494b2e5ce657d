package domain

// errors.go defines domain-specific error types.
type domainErr struct {
	message string
}

// Error returns the error message.
func (e domainErr) Error() string {
	return e.message
}

// NotFoundErr represents an error when a requested entity is not found.
type NotFoundErr struct {
	domainErr
}

// NewNotFoundErr creates a new NotFoundErr with the given message.
func NewNotFoundErr(message string) *NotFoundErr {
	return &NotFoundErr{
		domainErr: domainErr{message: message},
	}
}

// ValidationErr represents an error when validation fails.
type ValidationErr struct {
	domainErr
}

// NewValidationErr creates a new ValidationErr with the given message.
func NewValidationErr(message string) *ValidationErr {
	return &ValidationErr{
		domainErr: domainErr{message: message},
	}
}

// GatewayErrCause classifies a gateway or live-session failure by its
// user-facing remedy: a credential error prompts re-entering an API key, a
// permission error prompts granting microphone access, a device error prompts
// plugging in hardware, everything else is a generic transport failure.
type GatewayErrCause string

const (
	// GatewayErrCause_Credential indicates an invalid or missing API credential.
	GatewayErrCause_Credential GatewayErrCause = "credential"
	// GatewayErrCause_Permission indicates the client denied microphone access.
	GatewayErrCause_Permission GatewayErrCause = "permission"
	// GatewayErrCause_Device indicates no usable audio input device was found.
	GatewayErrCause_Device GatewayErrCause = "device"
	// GatewayErrCause_Transport indicates a generic connection or stream failure.
	GatewayErrCause_Transport GatewayErrCause = "transport"
)

// GatewayErr represents a classified failure at the Model Gateway or live
// session boundary.
type GatewayErr struct {
	domainErr
	Cause GatewayErrCause
}

// NewGatewayErr creates a new GatewayErr with the given cause and message.
func NewGatewayErr(cause GatewayErrCause, message string) *GatewayErr {
	return &GatewayErr{
		domainErr: domainErr{message: message},
		Cause:     cause,
	}
}
