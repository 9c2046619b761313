package volunteer

import (
	"strings"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/common/validation"
)

type CreateVolunteerDTO struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	City         string `json:"city,omitempty"`
	Interests    string `json:"interests,omitempty"`
	Availability string `json:"availability,omitempty"`
	Message      string `json:"message,omitempty"`
}

func (dto CreateVolunteerDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", strings.TrimSpace(dto.Name)).Required().MaxLength(200)
	validator.Field("email", strings.TrimSpace(dto.Email)).Required().Email()
	validator.Field("phone", strings.TrimSpace(dto.Phone)).Required().MinLength(7).MaxLength(20)
	validator.Field("message", dto.Message).MaxLength(5000)
	return validator.Validate()
}

type UpdateVolunteerDTO struct {
	Status string `json:"status"`
}

func (dto UpdateVolunteerDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("status", dto.Status).Required().OneOf(Statuses, errors.ErrCodeInvalidStatus)
	return validator.Validate()
}

type Stats struct {
	Total     int64 `json:"total"`
	New       int64 `json:"new"`
	Contacted int64 `json:"contacted"`
	Accepted  int64 `json:"accepted"`
	Rejected  int64 `json:"rejected"`
}
