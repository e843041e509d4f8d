package inmem

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/server/dao"
)

func Test_UsersRepository_createThenGetByID(t *testing.T) {
	repo := NewUsersRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, dao.User{Username: "alice"})
	if !assert.NoError(t, err) {
		return
	}
	assert.NotEqual(t, dao.User{}.ID, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "alice", got.Username)
}

func Test_UsersRepository_create_duplicateUsernameConflicts(t *testing.T) {
	repo := NewUsersRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, dao.User{Username: "alice"})
	if !assert.NoError(t, err) {
		return
	}

	_, err = repo.Create(ctx, dao.User{Username: "alice"})
	assert.ErrorIs(t, err, dao.ErrConstraintViolation)
}

func Test_UsersRepository_getByID_missingIsNotFound(t *testing.T) {
	repo := NewUsersRepository()
	_, err := repo.GetByID(context.Background(), dao.User{}.ID)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func Test_JobsRepository_createThenGetAllByUser(t *testing.T) {
	repo := NewJobsRepository()
	ctx := context.Background()

	user1 := uuid.New()
	job, err := repo.Create(ctx, dao.Job{UserID: user1, GrammarText: "S -> a;"})
	if !assert.NoError(t, err) {
		return
	}

	_, err = repo.Create(ctx, dao.Job{UserID: uuid.New(), GrammarText: "S -> b;"})
	if !assert.NoError(t, err) {
		return
	}

	all, err := repo.GetAllByUser(ctx, user1)
	if !assert.NoError(t, err) {
		return
	}
	if assert.Len(t, all, 1) {
		assert.Equal(t, job.GrammarText, all[0].GrammarText)
	}
}

func Test_JobsRepository_update_missingIsNotFound(t *testing.T) {
	repo := NewJobsRepository()
	_, err := repo.Update(context.Background(), dao.Job{}.ID, dao.Job{})
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
