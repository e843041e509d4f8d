package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/dao/inmem"
)

func newLoginRequest(t *testing.T, body LoginRequest) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if !assert.NoError(t, json.NewEncoder(&buf).Encode(body)) {
		t.FailNow()
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func storedPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return base64.StdEncoding.EncodeToString(hash)
}

func Test_Login_correctCredentials_returnsToken(t *testing.T) {
	store := inmem.NewDatastore()
	_, err := store.Users().Create(context.Background(), dao.User{Username: "alice", Password: storedPassword(t, "hunter2")})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store, JWTSecret: []byte("0123456789012345678901234567890123456789")}
	res := d.Login(newLoginRequest(t, LoginRequest{Username: "alice", Password: "hunter2"}))

	assert.Equal(t, http.StatusCreated, res.Status)
}

func Test_Login_wrongPassword_unauthorized(t *testing.T) {
	store := inmem.NewDatastore()
	_, err := store.Users().Create(context.Background(), dao.User{Username: "alice", Password: storedPassword(t, "hunter2")})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store, JWTSecret: []byte("0123456789012345678901234567890123456789")}
	res := d.Login(newLoginRequest(t, LoginRequest{Username: "alice", Password: "wrong"}))

	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func Test_Login_unknownUser_unauthorized(t *testing.T) {
	store := inmem.NewDatastore()
	d := Deps{DB: store, JWTSecret: []byte("0123456789012345678901234567890123456789")}

	res := d.Login(newLoginRequest(t, LoginRequest{Username: "ghost", Password: "x"}))
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}
