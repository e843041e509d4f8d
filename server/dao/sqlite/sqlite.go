// Package sqlite provides a dao.Store backed by modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/dekarrin/rezi"
	"modernc.org/sqlite"

	"github.com/dekarrin/ll1gen"
	"github.com/dekarrin/ll1gen/server/dao"
)

type store struct {
	dbFilename string
	db         *sql.DB

	users *UsersDB
	jobs  *JobsDB
}

// NewDatastore opens (creating if necessary) the sqlite database in
// storageDir and returns a dao.Store backed by it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "ll1gen.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		return nil, err
	}

	st.jobs = &JobsDB{db: st.db}
	if err := st.jobs.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Jobs() dao.JobRepository {
	return s.jobs
}

func (s *store) Close() error {
	return wrapDBError(s.db.Close())
}

// convertToDB_Role converts a dao.Role to storage DB format.
func convertToDB_Role(r dao.Role) string {
	return r.String()
}

// convertToDB_Email converts a *mail.Address to storage DB format. If the
// pointer is nil, it will return the zero value.
func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

// convertToDB_Time converts a time.Time to storage DB format on disk.
func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

// convertFromDB_Email converts storage DB format value to a *mail.Address
// and stores it at the address pointed to by target. If the zero value is
// provided, target is set to a nil pointer. If there is a problem with the
// decoding, the returned error will wrap dao.ErrDecodingFailure.
func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}

	*target = email
	return nil
}

// convertFromDB_Role converts storage DB format value to a dao.Role and
// stores it at the address pointed to by target.
func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = r
	return nil
}

// convertFromDB_JobStatus converts storage DB format value to a
// dao.JobStatus and stores it at the address pointed to by target.
func convertFromDB_JobStatus(s string, target *dao.JobStatus) error {
	st, err := dao.ParseJobStatus(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	*target = st
	return nil
}

// convertFromDB_Time converts storage DB format value to a time.Time and
// stores it at the address pointed to by target. A zero int64 decodes to
// the zero time.Time rather than the Unix epoch, since several Job/User
// timestamp fields are legitimately unset.
func convertFromDB_Time(i int64, target *time.Time) error {
	if i == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(i, 0)
	return nil
}

// convertToDB_Result encodes a job's generation result as a REZI binary
// blob for storage.
func convertToDB_Result(r ll1gen.GenerationResult) []byte {
	return rezi.EncBinary(r)
}

// convertFromDB_Result decodes a REZI binary blob back into a
// ll1gen.GenerationResult and stores it at the address pointed to by
// target. An empty blob (an unsucceeded job never populated one) decodes
// to the zero value.
func convertFromDB_Result(data []byte, target *ll1gen.GenerationResult) error {
	if len(data) == 0 {
		*target = ll1gen.GenerationResult{}
		return nil
	}
	n, err := rezi.DecBinary(data, target)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err)
	}
	if n != len(data) {
		return fmt.Errorf("%w: consumed %d/%d bytes", dao.ErrDecodingFailure, n, len(data))
	}
	return nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
