package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AddressInput is the validated payload for creating or updating an address.
type AddressInput struct {
	Name       string
	Phone      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// AddressService manages a user's saved shipping addresses.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	DefaultOrFirst(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type addressService struct {
	repo *Repository
	tx   txRunner
}

// NewAddressService builds the address service.
func NewAddressService(repo *Repository, tx txRunner) (AddressService, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &addressService{repo: repo, tx: tx}, nil
}

// List returns the user's addresses, default first, never nil.
func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, AddressFromModel(row))
	}
	return out, nil
}

// Create saves a new address. Marking it default clears any previous default
// in the same transaction.
func (s *addressService) Create(ctx context.Context, userID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	address := addressFromInput(userID, input)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, userID); err != nil {
				return err
			}
		}
		_, err := repo.CreateAddress(ctx, address)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	dto := AddressFromModel(*address)
	return &dto, nil
}

// Update overwrites an owned address; unknown or foreign IDs resolve to
// not found.
func (s *addressService) Update(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*AddressDTO, error) {
	existing, err := s.repo.FindAddress(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	updated := addressFromInput(userID, input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, userID); err != nil {
				return err
			}
		}
		_, err := repo.UpdateAddress(ctx, updated)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	dto := AddressFromModel(*updated)
	return &dto, nil
}

// Delete removes an owned address; deleting someone else's is a silent no-op
// at the persistence layer.
func (s *addressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := s.repo.DeleteAddress(ctx, userID, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// DefaultOrFirst picks the shipping address used at checkout: the default
// one, or the earliest saved when none is marked.
func (s *addressService) DefaultOrFirst(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	rows, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func addressFromInput(userID uuid.UUID, input AddressInput) *models.Address {
	country := input.Country
	if country == "" {
		country = "IN"
	}
	return &models.Address{
		UserID:     userID,
		Name:       input.Name,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    country,
		IsDefault:  input.IsDefault,
	}
}
