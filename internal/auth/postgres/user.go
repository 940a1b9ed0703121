package postgres

import (
	"errors"

	"github.com/frahmantamala/travel-booking/internal/auth"
	userdatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(email string) (*auth.User, string, error) {
	var record userdatamodel.User
	err := r.db.Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", err
	}
	return toAuthUser(&record), record.PasswordHash, nil
}

func (r *UserRepository) GetByID(userID int64) (*auth.User, error) {
	var record userdatamodel.User
	err := r.db.First(&record, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return toAuthUser(&record), nil
}

func toAuthUser(record *userdatamodel.User) *auth.User {
	return &auth.User{
		ID:        record.ID,
		Email:     record.Email,
		FirstName: record.FirstName,
		LastName:  record.LastName,
		IsActive:  record.IsActive,
	}
}
