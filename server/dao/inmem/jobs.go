package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

func NewJobsRepository() *JobsRepository {
	return &JobsRepository{jobs: make(map[uuid.UUID]dao.Job)}
}

type JobsRepository struct {
	jobs map[uuid.UUID]dao.Job
}

func (r *JobsRepository) Close() error {
	return nil
}

func (r *JobsRepository) Create(ctx context.Context, job dao.Job) (dao.Job, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Job{}, fmt.Errorf("could not generate ID: %w", err)
	}

	job.ID = newUUID
	job.Created = time.Now()
	r.jobs[job.ID] = job

	return job, nil
}

func (r *JobsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dao.Job{}, dao.ErrNotFound
	}
	return job, nil
}

func (r *JobsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Job, error) {
	var all []dao.Job
	for _, j := range r.jobs {
		if j.UserID == userID {
			all = append(all, j)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Created.After(all[j].Created) })
	return all, nil
}

func (r *JobsRepository) GetAll(ctx context.Context) ([]dao.Job, error) {
	all := make([]dao.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Created.After(all[j].Created) })
	return all, nil
}

func (r *JobsRepository) Update(ctx context.Context, id uuid.UUID, job dao.Job) (dao.Job, error) {
	if _, ok := r.jobs[id]; !ok {
		return dao.Job{}, dao.ErrNotFound
	}
	job.ID = id
	r.jobs[id] = job
	return job, nil
}

func (r *JobsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dao.Job{}, dao.ErrNotFound
	}
	delete(r.jobs, id)
	return job, nil
}
