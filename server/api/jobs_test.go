package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/dao/inmem"
	"github.com/dekarrin/ll1gen/server/middle"
)

func addChiParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

const sampleGrammar = `
Prelude {
	package gen
}
Skip {
	"\s+"
}
Tokens {
	Id -> "[a-z]+"
}
NotTerminals {
	S {} {} ->
		Id { }
}
`

func authedRequest(t *testing.T, method, target string, body interface{}, user dao.User) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if !assert.NoError(t, json.NewEncoder(&buf).Encode(body)) {
			t.FailNow()
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := context.WithValue(req.Context(), middle.AuthLoggedIn, true)
	ctx = context.WithValue(ctx, middle.AuthUser, user)
	return req.WithContext(ctx)
}

func Test_CreateJob_validGrammar_succeeds(t *testing.T) {
	store := inmem.NewDatastore()
	user, err := store.Users().Create(context.Background(), dao.User{Username: "alice"})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store, MaxGrammarBytes: 1 << 20}
	req := authedRequest(t, http.MethodPost, "/api/v1/jobs", CreateJobRequest{Grammar: sampleGrammar}, user)

	res := d.CreateJob(req)
	assert.Equal(t, http.StatusCreated, res.Status)
}

func Test_CreateJob_malformedGrammar_returnsFailedJob(t *testing.T) {
	store := inmem.NewDatastore()
	user, err := store.Users().Create(context.Background(), dao.User{Username: "alice"})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store, MaxGrammarBytes: 1 << 20}
	req := authedRequest(t, http.MethodPost, "/api/v1/jobs", CreateJobRequest{Grammar: "not a grammar"}, user)

	res := d.CreateJob(req)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)

	jobs, err := store.Jobs().GetAllByUser(context.Background(), user.ID)
	if !assert.NoError(t, err) {
		return
	}
	if assert.Len(t, jobs, 1) {
		assert.Equal(t, dao.JobFailed, jobs[0].Status)
		assert.NotEmpty(t, jobs[0].ErrorMessage)
	}
}

func Test_CreateJob_oversizedGrammar_rejectedBeforeRunning(t *testing.T) {
	store := inmem.NewDatastore()
	user, err := store.Users().Create(context.Background(), dao.User{Username: "alice"})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store, MaxGrammarBytes: 4}
	req := authedRequest(t, http.MethodPost, "/api/v1/jobs", CreateJobRequest{Grammar: sampleGrammar}, user)

	res := d.CreateJob(req)
	assert.Equal(t, http.StatusBadRequest, res.Status)

	jobs, err := store.Jobs().GetAllByUser(context.Background(), user.ID)
	if !assert.NoError(t, err) {
		return
	}
	assert.Empty(t, jobs)
}

func Test_GetJob_otherUsersJob_isForbidden(t *testing.T) {
	store := inmem.NewDatastore()
	owner, err := store.Users().Create(context.Background(), dao.User{Username: "owner"})
	if !assert.NoError(t, err) {
		return
	}
	other, err := store.Users().Create(context.Background(), dao.User{Username: "other"})
	if !assert.NoError(t, err) {
		return
	}

	job, err := store.Jobs().Create(context.Background(), dao.Job{UserID: owner.ID, GrammarText: sampleGrammar})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store}
	req := authedRequest(t, http.MethodGet, "/api/v1/jobs/"+job.ID.String(), nil, other)
	req = addChiParam(req, "id", job.ID.String())

	res := d.GetJob(req)
	assert.Equal(t, http.StatusForbidden, res.Status)
}

func Test_ListJobs_returnsOnlyCallersJobs(t *testing.T) {
	store := inmem.NewDatastore()
	user, err := store.Users().Create(context.Background(), dao.User{Username: "alice"})
	if !assert.NoError(t, err) {
		return
	}
	other, err := store.Users().Create(context.Background(), dao.User{Username: "bob"})
	if !assert.NoError(t, err) {
		return
	}

	_, err = store.Jobs().Create(context.Background(), dao.Job{UserID: user.ID, GrammarText: "a"})
	if !assert.NoError(t, err) {
		return
	}
	_, err = store.Jobs().Create(context.Background(), dao.Job{UserID: other.ID, GrammarText: "b"})
	if !assert.NoError(t, err) {
		return
	}

	d := Deps{DB: store}
	req := authedRequest(t, http.MethodGet, "/api/v1/jobs", nil, user)

	res := d.ListJobs(req)
	assert.Equal(t, http.StatusOK, res.Status)
}
