package inquiry

import (
	"strings"

	errors "github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/internal/core/common/validation"
)

type CreateInquiryDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

func (dto CreateInquiryDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", strings.TrimSpace(dto.Name)).Required().MaxLength(200)
	validator.Field("email", strings.TrimSpace(dto.Email)).Required().Email()
	validator.Field("subject", dto.Subject).MaxLength(300)
	validator.Field("message", strings.TrimSpace(dto.Message)).Required().MaxLength(5000)
	return validator.Validate()
}

type UpdateInquiryDTO struct {
	Status string `json:"status"`
}

func (dto UpdateInquiryDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("status", dto.Status).Required().OneOf(Statuses, errors.ErrCodeInvalidStatus)
	return validator.Validate()
}

type Stats struct {
	Total   int64 `json:"total"`
	New     int64 `json:"new"`
	Replied int64 `json:"replied"`
	Closed  int64 `json:"closed"`
}
