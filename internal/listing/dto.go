package listing

import (
	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// CreateListingDTO is the request payload for publishing a listing.
type CreateListingDTO struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	MaxGuests     int             `json:"max_guests"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	Amenities     string          `json:"amenities"`
}

func (dto *CreateListingDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("title", dto.Title).Required().MaxLength(200)
	validator.Field("address", dto.Address).Required().MaxLength(255)
	validator.Field("city", dto.City).Required().MaxLength(100)
	validator.Field("country", dto.Country).Required().MaxLength(100)
	validator.Field("price_per_night", dto.PricePerNight).Required().PositiveDecimal(errors.ErrCodeInvalidAmount)
	validator.Field("max_guests", int64(dto.MaxGuests)).Required().
		MinInt(1, errors.ErrCodeValidationFailed).
		MaxInt(50, errors.ErrCodeValidationFailed)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// UpdateListingDTO carries partial updates. Nil fields are left unchanged.
type UpdateListingDTO struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Address       *string          `json:"address,omitempty"`
	City          *string          `json:"city,omitempty"`
	Country       *string          `json:"country,omitempty"`
	PricePerNight *decimal.Decimal `json:"price_per_night,omitempty"`
	MaxGuests     *int             `json:"max_guests,omitempty"`
	Bedrooms      *int             `json:"bedrooms,omitempty"`
	Bathrooms     *int             `json:"bathrooms,omitempty"`
	Amenities     *string          `json:"amenities,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

func (dto *UpdateListingDTO) Validate() error {
	validator := validation.NewValidator()

	if dto.Title != nil {
		validator.Field("title", *dto.Title).Required().MaxLength(200)
	}
	if dto.PricePerNight != nil {
		validator.Field("price_per_night", *dto.PricePerNight).PositiveDecimal(errors.ErrCodeInvalidAmount)
	}
	if dto.MaxGuests != nil {
		validator.Field("max_guests", int64(*dto.MaxGuests)).
			MinInt(1, errors.ErrCodeValidationFailed).
			MaxInt(50, errors.ErrCodeValidationFailed)
	}

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// SearchParams narrows the public listing search. Zero values mean no filter.
type SearchParams struct {
	City      string
	Country   string
	MaxPrice  decimal.Decimal
	MinGuests int
	Limit     int
	Offset    int
}

func (p *SearchParams) Normalize() {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}
