package checkout

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/ngo-donations/internal"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "ValidationError"
	KindOrderCreation       ErrorKind = "OrderCreationError"
	KindInvalidOrder        ErrorKind = "InvalidOrderResponse"
	KindPaymentGateway      ErrorKind = "PaymentGatewayError"
	KindPaymentVerification ErrorKind = "PaymentVerificationError"
)

// ErrAttemptInProgress is returned when a submission arrives while another
// attempt is still submitting or awaiting payment. Nothing changes.
var ErrAttemptInProgress = errors.New("checkout: donation attempt already in progress")

// FlowError is the terminal failure of an attempt.
type FlowError struct {
	Kind    ErrorKind                  `json:"kind"`
	Message string                     `json:"message"`
	Detail  string                     `json:"detail,omitempty"`
	Fields  []internal.ValidationError `json:"fields,omitempty"`
	Cause   error                      `json:"-"`
}

func (e *FlowError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a FlowError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FlowError
	return errors.As(err, &fe) && fe.Kind == kind
}

// DetailError is implemented by collaborator errors carrying a
// human-readable detail from the backend.
type DetailError interface {
	error
	Detail() string
}

func detailOf(err error) string {
	var de DetailError
	if errors.As(err, &de) {
		return de.Detail()
	}
	return ""
}
