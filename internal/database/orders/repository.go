package orders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lingohub/lingohub/internal/entities"
)

var ErrNotFound = errors.New("order not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(order *entities.Order) error {
	return r.db.Create(order).Error
}

// GetByID loads an order with its files.
func (r *Repository) GetByID(id uint) (*entities.Order, error) {
	var order entities.Order
	err := r.db.Preload("Files").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) Save(order *entities.Order) error {
	return r.db.Save(order).Error
}
