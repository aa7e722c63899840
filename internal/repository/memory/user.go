package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	mu      sync.RWMutex
	users   []user.User
	byID    map[string]int
	byEmail map[string]int
}

func NewUserRepository() user.UserRepository {
	return &userRepository{
		byID:    make(map[string]int),
		byEmail: make(map[string]int),
	}
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return user.User{}, user.ErrUserEmailExists
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	r.users = append(r.users, u)
	r.byID[u.ID] = len(r.users) - 1
	r.byEmail[email] = len(r.users) - 1
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.users[idx], nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.users[idx], nil
}

// ListIDsByDepartment implements user.UserRepository.
func (r *userRepository) ListIDsByDepartment(ctx context.Context, department string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for _, u := range r.users {
		if u.Department != nil && *u.Department == department {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}
