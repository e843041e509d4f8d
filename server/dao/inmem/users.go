package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

func NewUsersRepository() *UsersRepository {
	return &UsersRepository{
		users:           make(map[uuid.UUID]dao.User),
		byUsernameIndex: make(map[string]uuid.UUID),
	}
}

type UsersRepository struct {
	users           map[uuid.UUID]dao.User
	byUsernameIndex map[string]uuid.UUID
}

func (r *UsersRepository) Close() error {
	return nil
}

func (r *UsersRepository) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	if _, ok := r.byUsernameIndex[user.Username]; ok {
		return dao.User{}, dao.ErrConstraintViolation
	}

	user.ID = newUUID
	user.Created = time.Now()
	user.LastLogoutTime = time.Now()

	r.users[user.ID] = user
	r.byUsernameIndex[user.Username] = user.ID

	return user, nil
}

func (r *UsersRepository) GetAll(ctx context.Context) ([]dao.User, error) {
	all := make([]dao.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.String() < all[j].ID.String() })
	return all, nil
}

func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	existing, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}

	if user.Username != existing.Username {
		if _, ok := r.byUsernameIndex[user.Username]; ok {
			return dao.User{}, dao.ErrConstraintViolation
		}
	}

	user.Modified = time.Now()
	delete(r.byUsernameIndex, existing.Username)
	r.users[id] = user
	r.byUsernameIndex[user.Username] = id

	return user, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return user, nil
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	id, ok := r.byUsernameIndex[username]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	return r.users[id], nil
}

func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, ok := r.users[id]
	if !ok {
		return dao.User{}, dao.ErrNotFound
	}
	delete(r.byUsernameIndex, user.Username)
	delete(r.users, id)
	return user, nil
}
