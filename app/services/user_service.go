package services

import (
	"errors"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/app/repositories"
	"github.com/daliaibrahim58/greenmart/pkg/orm"
	"gorm.io/gorm"
)

// ErrUserNotFound mirrors the order/product sentinels for the users surface.
var ErrUserNotFound = errors.New("user not found")

// UserService is the admin back-office over user accounts.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService() *UserService {
	return &UserService{users: repositories.NewUserRepository()}
}

// All lists accounts with pagination. Admin-only.
func (s *UserService) All(identity Identity, page, limit int) ([]models.User, orm.Pagination, error) {
	if !identity.IsAdmin() {
		return nil, orm.Pagination{}, ErrForbidden
	}
	return s.users.All(page, limit)
}

// Get returns one account. Admins may read anyone; users only themselves.
func (s *UserService) Get(identity Identity, id uint) (models.User, error) {
	if !identity.IsAdmin() && identity.UserID != id {
		return models.User{}, ErrForbidden
	}

	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// SetRole promotes or demotes an account. Admin-only; admins cannot demote
// themselves (that is how shops lock themselves out).
func (s *UserService) SetRole(identity Identity, id uint, role string) (models.User, error) {
	if !identity.IsAdmin() {
		return models.User{}, ErrForbidden
	}
	if identity.UserID == id && role != models.RoleAdmin {
		return models.User{}, ErrForbidden
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, errors.New("unknown role: " + role)
	}

	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	user.Role = role
	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Delete removes an account. Admin-only; self-deletion is blocked.
func (s *UserService) Delete(identity Identity, id uint) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if identity.UserID == id {
		return ErrForbidden
	}
	return s.users.Delete(id)
}
