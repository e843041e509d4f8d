// Package inmem provides a dao.Store backed entirely by in-process maps,
// useful for the REPL and for tests that should not depend on a sqlite
// file.
package inmem

import (
	"fmt"

	"github.com/dekarrin/ll1gen/server/dao"
)

type store struct {
	users *UsersRepository
	jobs  *JobsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		jobs:  NewJobsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Jobs() dao.JobRepository {
	return s.jobs
}

func (s *store) Close() error {
	usersErr := s.users.Close()
	jobsErr := s.jobs.Close()

	var err error
	if usersErr != nil {
		err = usersErr
	}
	if jobsErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, %w", err, jobsErr)
		} else {
			err = jobsErr
		}
	}
	return err
}
