package auth

import (
	"strings"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("email", strings.TrimSpace(d.Email)).Required().Email()
	validator.Field("password", d.Password).Required()
	return validator.Validate()
}
