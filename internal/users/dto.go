package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
)

// UserDTO is the public shape of an account returned by the API.
type UserDTO struct {
	ID        uuid.UUID      `json:"id"`
	Phone     string         `json:"phone"`
	Email     *string        `json:"email,omitempty"`
	Name      string         `json:"name"`
	Role      enums.UserRole `json:"role"`
	Addresses []AddressDTO   `json:"addresses"`
	CreatedAt time.Time      `json:"created_at"`
}

// AddressDTO is the public shape of a saved address.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsDefault  bool      `json:"is_default"`
}

// FromModel maps a user row onto the public DTO. Addresses are always a
// non-nil array even when the user has none saved.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	addresses := make([]AddressDTO, 0, len(user.Addresses))
	for _, a := range user.Addresses {
		addresses = append(addresses, AddressFromModel(a))
	}
	return &UserDTO{
		ID:        user.ID,
		Phone:     user.Phone,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Addresses: addresses,
		CreatedAt: user.CreatedAt,
	}
}

// AddressFromModel maps an address row onto the public DTO.
func AddressFromModel(a models.Address) AddressDTO {
	return AddressDTO{
		ID:         a.ID,
		Name:       a.Name,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

// CreateUserDTO carries the validated registration payload into the repo.
type CreateUserDTO struct {
	Phone        string
	Email        *string
	Name         string
	PasswordHash string
	Role         enums.UserRole
}

// ToModel builds the persistence model for a new account.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Phone:        d.Phone,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         role,
		IsActive:     true,
	}
}
