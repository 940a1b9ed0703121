package booking

import (
	"time"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
)

// CreateBookingDTO is the request payload for reserving a listing.
type CreateBookingDTO struct {
	ListingID    int64     `json:"listing_id"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	NumGuests    int       `json:"num_guests"`
}

func (dto *CreateBookingDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("listing_id", dto.ListingID).Required()
	validator.Field("check_in_date", dto.CheckInDate).Required().NotPast()
	validator.Field("check_out_date", dto.CheckOutDate).Required().
		Custom(func(value interface{}) *errors.AppError {
			checkOut, ok := value.(time.Time)
			if !ok || checkOut.IsZero() {
				return nil
			}
			if !checkOut.After(dto.CheckInDate) {
				return errors.NewValidationFieldError("check_out_date",
					"check_out_date must be after check_in_date", errors.ErrCodeInvalidDateRange)
			}
			return nil
		})
	validator.Field("num_guests", int64(dto.NumGuests)).Required().
		MinInt(1, errors.ErrCodeValidationFailed)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
