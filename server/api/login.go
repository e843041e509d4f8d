// Package api holds the HTTP handlers for the generation service's
// endpoints, grounded on the teacher's endpoint-function + result.Result
// pattern.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
	"github.com/dekarrin/ll1gen/server/serr"
)

// LoginRequest is the JSON body of POST /api/v1/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the JSON body returned from a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login exchanges a username/password pair for a bearer JWT. Stored
// passwords are bcrypt hashes, base64-encoded for storage.
func (d Deps) Login(req *http.Request) result.Result {
	var body LoginRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	user, err := d.login(req.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized("", "login for user '%s': %s", body.Username, err.Error())
		}
		return result.InternalServerError("login for user '%s': %s", body.Username, err.Error())
	}

	tok, err := middle.GenerateJWT(d.JWTSecret, user)
	if err != nil {
		return result.InternalServerError("generate JWT: %s", err.Error())
	}

	return result.Created(LoginResponse{Token: tok}, "user '%s' logged in", user.Username)
}

func (d Deps) login(ctx context.Context, username, password string) (dao.User, error) {
	user, err := d.DB.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	bcryptHash, err := base64.StdEncoding.DecodeString(user.Password)
	if err != nil {
		return dao.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(bcryptHash, []byte(password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return dao.User{}, serr.ErrBadCredentials
		}
		return dao.User{}, serr.WrapDB("", err)
	}

	user.LastLoginTime = time.Now()
	user, err = d.DB.Users().Update(ctx, user.ID, user)
	if err != nil {
		return dao.User{}, serr.WrapDB("cannot update user login time", err)
	}

	return user, nil
}
