// Package middle provides HTTP middleware for the generation service,
// presently JWT-based authentication.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/result"
)

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthUser
)

// AuthHandler accepts a request, extracts the bearer token, and looks up
// the dao.User it names, storing the result in the request context before
// handing off to the next handler.
type AuthHandler struct {
	db            dao.UserRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var user dao.User

	tok, err := getJWT(req)
	if err != nil {
		if ah.required {
			res := result.Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			res.WriteResponse(w)
			return
		}
	} else {
		lookupUser, err := ValidateAndLookupJWTUser(req.Context(), tok, ah.secret, ah.db)
		if err != nil {
			if ah.required {
				res := result.Unauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				res.WriteResponse(w)
				return
			}
		} else {
			user = lookupUser
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth rejects requests that do not carry a valid bearer JWT before
// they reach next.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, unauthedDelay: unauthDelay, required: true, next: next}
}

// OptionalAuth populates AuthUser/AuthLoggedIn when a valid bearer JWT is
// present, but never rejects the request.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, next http.Handler) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, unauthedDelay: unauthDelay, required: false, next: next}
}

// UserFromContext retrieves the dao.User an AuthHandler placed in ctx.
func UserFromContext(ctx context.Context) (dao.User, bool) {
	loggedIn, _ := ctx.Value(AuthLoggedIn).(bool)
	if !loggedIn {
		return dao.User{}, false
	}
	user, ok := ctx.Value(AuthUser).(dao.User)
	return user, ok
}

// ValidateAndLookupJWTUser parses tok, verifies its signature against a key
// derived from secret, the subject user's password, and last-logout time,
// and returns the subject dao.User.
func ValidateAndLookupJWTUser(ctx context.Context, tok string, secret []byte, db dao.UserRepository) (dao.User, error) {
	var user dao.User

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		user, err = db.GetByID(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return SigningKey(secret, user), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("ll1gen"), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.User{}, err
	}

	return user, nil
}

// SigningKey derives the per-user JWT signing key: the server secret, the
// user's stored password hash, and their last logout time concatenated.
// Logging out (which bumps LastLogoutTime) invalidates every JWT issued
// before that moment.
func SigningKey(secret []byte, u dao.User) []byte {
	var signKey []byte
	signKey = append(signKey, secret...)
	signKey = append(signKey, []byte(u.Password)...)
	signKey = append(signKey, []byte(fmt.Sprintf("%d", u.LastLogoutTime.Unix()))...)
	return signKey
}

// GenerateJWT issues a one-hour bearer token for u.
func GenerateJWT(secret []byte, u dao.User) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        "ll1gen",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"sub":        u.ID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(SigningKey(secret, u))
}

func getJWT(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}
