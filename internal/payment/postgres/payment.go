package postgres

import (
	"errors"
	"time"

	paymentmodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/payment"
	paymentpkg "github.com/frahmantamala/travel-booking/internal/payment"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *paymentmodel.Payment) error {
	err := r.db.Create(p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return paymentpkg.ErrDuplicateReference
		}
		return err
	}
	return nil
}

func (r *PaymentRepository) GetByReference(reference string) (*paymentmodel.Payment, error) {
	var p paymentmodel.Payment
	err := r.db.Where("booking_reference = ?", reference).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentpkg.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CompleteFromPending is a compare-and-set: the row moves to completed only
// if it still holds pending, so terminal rows are never overwritten. The
// bool reports whether this caller won the transition.
func (r *PaymentRepository) CompleteFromPending(reference, transactionID string) (bool, error) {
	tx := r.db.Model(&paymentmodel.Payment{}).
		Where("booking_reference = ? AND status = ?", reference, paymentmodel.StatusPending).
		Updates(map[string]interface{}{
			"status":         paymentmodel.StatusCompleted,
			"transaction_id": transactionID,
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// FailFromPending applies the same guard as CompleteFromPending but leaves
// transaction_id unset.
func (r *PaymentRepository) FailFromPending(reference string) (bool, error) {
	tx := r.db.Model(&paymentmodel.Payment{}).
		Where("booking_reference = ? AND status = ?", reference, paymentmodel.StatusPending).
		Updates(map[string]interface{}{
			"status":     paymentmodel.StatusFailed,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
