package review

import (
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
)

// CreateReviewDTO is the request payload for reviewing a completed stay.
type CreateReviewDTO struct {
	BookingID int64  `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (dto *CreateReviewDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("booking_id", dto.BookingID).Required()
	validator.Field("comment", dto.Comment).MaxLength(2000)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if appErr := validation.ValidateRating(int64(dto.Rating)); appErr != nil {
		return appErr
	}
	return nil
}
