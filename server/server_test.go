package server

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

	"github.com/dekarrin/ll1gen/server/api"
	"github.com/dekarrin/ll1gen/server/dao"
)

func newTestServer(t *testing.T) (Server, dao.User) {
	t.Helper()

	srv, err := New(Config{DB: Database{Type: DatabaseInMemory}, TokenSecret: []byte("0123456789012345678901234567890123456789")})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	user, err := srv.db.Users().Create(context.Background(), dao.User{Username: "alice", Password: base64.StdEncoding.EncodeToString(hash)})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return srv, user
}

func Test_Server_loginThenCreateJob_endToEnd(t *testing.T) {
	srv, _ := newTestServer(t)

	loginBody, _ := json.Marshal(api.LoginRequest{Username: "alice", Password: "hunter2"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	srv.ServeHTTP(loginW, loginReq)

	if !assert.Equal(t, http.StatusCreated, loginW.Code) {
		return
	}

	var loginResp api.LoginResponse
	if !assert.NoError(t, json.Unmarshal(loginW.Body.Bytes(), &loginResp)) {
		return
	}
	assert.NotEmpty(t, loginResp.Token)

	jobBody, _ := json.Marshal(api.CreateJobRequest{Grammar: "bad grammar"})
	jobReq := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(jobBody))
	jobReq.Header.Set("Content-Type", "application/json")
	jobReq.Header.Set("Authorization", "Bearer "+loginResp.Token)
	jobW := httptest.NewRecorder()
	srv.ServeHTTP(jobW, jobReq)

	assert.Equal(t, http.StatusUnprocessableEntity, jobW.Code)
}

func Test_Server_createJob_withoutAuth_isUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	jobBody, _ := json.Marshal(api.CreateJobRequest{Grammar: "S -> a;"})
	jobReq := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(jobBody))
	jobReq.Header.Set("Content-Type", "application/json")
	jobW := httptest.NewRecorder()
	srv.ServeHTTP(jobW, jobReq)

	assert.Equal(t, http.StatusUnauthorized, jobW.Code)
}

func Test_Server_login_wrongPassword_isUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	loginBody, _ := json.Marshal(api.LoginRequest{Username: "alice", Password: "wrong"})
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	srv.ServeHTTP(loginW, loginReq)

	assert.Equal(t, http.StatusUnauthorized, loginW.Code)
}
