package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dekarrin/ll1gen"
	"github.com/dekarrin/ll1gen/internal/cache"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/middle"
	"github.com/dekarrin/ll1gen/server/result"
	"github.com/dekarrin/ll1gen/server/serr"
)

// CreateJobRequest is the JSON body of POST /api/v1/jobs.
type CreateJobRequest struct {
	Grammar string `json:"grammar"`
}

// JobResponse is the JSON representation of a dao.Job.
type JobResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Source       string `json:"source,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
	Created      string `json:"created"`
	Completed    string `json:"completed,omitempty"`
}

func toJobResponse(job dao.Job) JobResponse {
	resp := JobResponse{
		ID:           job.ID.String(),
		Status:       job.Status.String(),
		Source:       job.Result.Source,
		ErrorMessage: job.ErrorMessage,
		Created:      job.Created.Format(time.RFC3339),
	}
	if !job.Completed.IsZero() {
		resp.Completed = job.Completed.Format(time.RFC3339)
	}
	return resp
}

// CreateJob runs the full parse/analyze/emit pipeline against the submitted
// grammar text, synchronously, and persists the outcome as a dao.Job. A
// cache hit for the grammar's content bypasses the pipeline entirely.
func (d Deps) CreateJob(req *http.Request) result.Result {
	user, ok := middle.UserFromContext(req.Context())
	if !ok {
		return result.Unauthorized("", "no authenticated user")
	}

	var body CreateJobRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if d.MaxGrammarBytes > 0 && len(body.Grammar) > d.MaxGrammarBytes {
		return result.BadRequest(fmt.Sprintf("grammar text exceeds maximum of %d bytes", d.MaxGrammarBytes))
	}

	job := dao.Job{UserID: user.ID, GrammarText: body.Grammar, Status: dao.JobRunning}

	genResult, genErr := d.generate(body.Grammar)
	if genErr != nil {
		job.Status = dao.JobFailed
		job.ErrorMessage = genErr.Error()
	} else {
		job.Status = dao.JobSucceeded
		job.Result = genResult
	}
	job.Completed = time.Now()

	created, err := d.DB.Jobs().Create(req.Context(), job)
	if err != nil {
		return result.InternalServerError("store job: %s", err.Error())
	}

	if genErr != nil {
		return result.UnprocessableEntity(toJobResponse(created), "job '%s' failed: %s", created.ID, genErr.Error())
	}
	return result.Created(toJobResponse(created), "job '%s' succeeded", created.ID)
}

// generate consults the cache before invoking the ll1gen pipeline, and
// populates the cache on a fresh run.
func (d Deps) generate(grammarText string) (ll1gen.GenerationResult, error) {
	key := cache.Key(grammarText)

	if d.Cache != nil {
		if entry, err := d.Cache.Get(key); err == nil {
			return entry.Result, nil
		}
	}

	genResult, err := ll1gen.GenerateResult(grammarText)
	if err != nil {
		return ll1gen.GenerationResult{}, serr.WrapGeneration("", err)
	}

	if d.Cache != nil {
		_ = d.Cache.Put(cache.Entry{Key: key, GrammarText: grammarText, Result: genResult, Created: time.Now()})
	}

	return genResult, nil
}

// GetJob fetches a single job by id, owned by the caller (or any job, for
// an admin caller).
func (d Deps) GetJob(req *http.Request) result.Result {
	user, ok := middle.UserFromContext(req.Context())
	if !ok {
		return result.Unauthorized("", "no authenticated user")
	}

	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return result.NotFound("invalid job id %q", chi.URLParam(req, "id"))
	}

	job, err := d.DB.Jobs().GetByID(req.Context(), id)
	if err != nil {
		if err == dao.ErrNotFound {
			return result.NotFound("job '%s' not found", id)
		}
		return result.InternalServerError("get job: %s", err.Error())
	}

	if job.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("job '%s' is not owned by user '%s'", id, user.Username)
	}

	return result.OK(toJobResponse(job))
}

// ListJobs returns every job belonging to the caller.
func (d Deps) ListJobs(req *http.Request) result.Result {
	user, ok := middle.UserFromContext(req.Context())
	if !ok {
		return result.Unauthorized("", "no authenticated user")
	}

	jobs, err := d.DB.Jobs().GetAllByUser(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError("list jobs: %s", err.Error())
	}

	resp := make([]JobResponse, len(jobs))
	for i, j := range jobs {
		resp[i] = toJobResponse(j)
	}

	return result.OK(resp, "listed %d job(s) for user '%s'", len(resp), user.Username)
}
