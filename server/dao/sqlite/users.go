package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/google/uuid"
)

type UsersDB struct {
	db *sql.DB
}

func (repo *UsersDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		email TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL
	);`)
	return wrapDBError(err)
}

func (repo *UsersDB) Create(ctx context.Context, user dao.User) (dao.User, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.User{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password, role, email, created, modified, last_logout_time, last_login_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newUUID.String(),
		user.Username,
		user.Password,
		convertToDB_Role(user.Role),
		convertToDB_Email(user.Email),
		convertToDB_Time(user.Created),
		convertToDB_Time(user.Modified),
		convertToDB_Time(user.LastLogoutTime),
		convertToDB_Time(user.LastLoginTime),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *UsersDB) scanRow(row interface {
	Scan(dest ...interface{}) error
}) (dao.User, error) {
	var user dao.User
	var id, email, role string
	var created, modified, lastLogout, lastLogin int64

	err := row.Scan(&id, &user.Username, &user.Password, &role, &email, &created, &modified, &lastLogout, &lastLogin)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}

	if user.ID, err = uuid.Parse(id); err != nil {
		return dao.User{}, fmt.Errorf("%w: stored UUID %q is invalid", dao.ErrDecodingFailure, id)
	}
	if err := convertFromDB_Email(email, &user.Email); err != nil {
		return dao.User{}, err
	}
	if err := convertFromDB_Role(role, &user.Role); err != nil {
		return dao.User{}, err
	}
	if err := convertFromDB_Time(created, &user.Created); err != nil {
		return dao.User{}, err
	}
	if err := convertFromDB_Time(modified, &user.Modified); err != nil {
		return dao.User{}, err
	}
	if err := convertFromDB_Time(lastLogout, &user.LastLogoutTime); err != nil {
		return dao.User{}, err
	}
	if err := convertFromDB_Time(lastLogin, &user.LastLoginTime); err != nil {
		return dao.User{}, err
	}

	return user, nil
}

func (repo *UsersDB) GetByID(ctx context.Context, id uuid.UUID) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password, role, email, created, modified, last_logout_time, last_login_time
		FROM users WHERE id = ?;`, id.String())
	return repo.scanRow(row)
}

func (repo *UsersDB) GetByUsername(ctx context.Context, username string) (dao.User, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, username, password, role, email, created, modified, last_logout_time, last_login_time
		FROM users WHERE username = ?;`, username)
	return repo.scanRow(row)
}

func (repo *UsersDB) GetAll(ctx context.Context) ([]dao.User, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, username, password, role, email, created, modified, last_logout_time, last_login_time FROM users;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.User
	for rows.Next() {
		user, err := repo.scanRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, user)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *UsersDB) Update(ctx context.Context, id uuid.UUID, user dao.User) (dao.User, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET username=?, password=?, role=?, email=?, modified=?, last_logout_time=?, last_login_time=? WHERE id=?;`,
		user.Username,
		user.Password,
		convertToDB_Role(user.Role),
		convertToDB_Email(user.Email),
		convertToDB_Time(user.Modified),
		convertToDB_Time(user.LastLogoutTime),
		convertToDB_Time(user.LastLoginTime),
		id.String(),
	)
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}
	return repo.GetByID(ctx, id)
}

func (repo *UsersDB) Delete(ctx context.Context, id uuid.UUID) (dao.User, error) {
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return dao.User{}, err
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?;`, id.String())
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.User{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.User{}, dao.ErrNotFound
	}
	return user, nil
}

func (repo *UsersDB) Close() error {
	return nil
}
