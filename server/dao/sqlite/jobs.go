package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

type JobsDB struct {
	db *sql.DB
}

func (repo *JobsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		grammar_text TEXT NOT NULL,
		status TEXT NOT NULL,
		result BLOB NOT NULL,
		error_message TEXT NOT NULL,
		created INTEGER NOT NULL,
		completed INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *JobsDB) Create(ctx context.Context, job dao.Job) (dao.Job, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Job{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO jobs (id, user_id, grammar_text, status, result, error_message, created, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		newUUID.String(),
		job.UserID.String(),
		job.GrammarText,
		job.Status.String(),
		convertToDB_Result(job.Result),
		job.ErrorMessage,
		convertToDB_Time(job.Created),
		convertToDB_Time(job.Completed),
	)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *JobsDB) scanRow(row interface {
	Scan(dest ...interface{}) error
}) (dao.Job, error) {
	var job dao.Job
	var id, userID, status string
	var result []byte
	var created, completed int64

	err := row.Scan(&id, &userID, &job.GrammarText, &status, &result, &job.ErrorMessage, &created, &completed)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}

	if job.ID, err = uuid.Parse(id); err != nil {
		return dao.Job{}, fmt.Errorf("%w: stored UUID %q is invalid", dao.ErrDecodingFailure, id)
	}
	if job.UserID, err = uuid.Parse(userID); err != nil {
		return dao.Job{}, fmt.Errorf("%w: stored UUID %q is invalid", dao.ErrDecodingFailure, userID)
	}
	if err := convertFromDB_JobStatus(status, &job.Status); err != nil {
		return dao.Job{}, err
	}
	if err := convertFromDB_Result(result, &job.Result); err != nil {
		return dao.Job{}, err
	}
	if err := convertFromDB_Time(created, &job.Created); err != nil {
		return dao.Job{}, err
	}
	if err := convertFromDB_Time(completed, &job.Completed); err != nil {
		return dao.Job{}, err
	}

	return job, nil
}

func (repo *JobsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, user_id, grammar_text, status, result, error_message, created, completed
		FROM jobs WHERE id = ?;`, id.String())
	return repo.scanRow(row)
}

func (repo *JobsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Job, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, user_id, grammar_text, status, result, error_message, created, completed
		FROM jobs WHERE user_id = ? ORDER BY created DESC;`, userID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	return repo.scanAll(rows)
}

func (repo *JobsDB) GetAll(ctx context.Context) ([]dao.Job, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, user_id, grammar_text, status, result, error_message, created, completed
		FROM jobs ORDER BY created DESC;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	return repo.scanAll(rows)
}

func (repo *JobsDB) scanAll(rows *sql.Rows) ([]dao.Job, error) {
	var all []dao.Job
	for rows.Next() {
		job, err := repo.scanRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, job)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *JobsDB) Update(ctx context.Context, id uuid.UUID, job dao.Job) (dao.Job, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE jobs SET status=?, result=?, error_message=?, completed=? WHERE id=?;`,
		job.Status.String(),
		convertToDB_Result(job.Result),
		job.ErrorMessage,
		convertToDB_Time(job.Completed),
		id.String(),
	)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Job{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *JobsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.Job{}, err
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?;`, id.String())
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Job{}, dao.ErrNotFound
	}
	return job, nil
}

func (repo *JobsDB) Close() error {
	return nil
}
