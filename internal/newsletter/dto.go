package newsletter

import (
	"strings"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/common/validation"
)

type SubscribeDTO struct {
	Email string `json:"email"`
}

// Normalize trims and lowercases the address so one inbox maps to one row.
func (dto *SubscribeDTO) Normalize() {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
}

func (dto SubscribeDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("email", dto.Email).Required().Email().MaxLength(320)
	return validator.Validate()
}

type Stats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Unsubscribed int64 `json:"unsubscribed"`
}
