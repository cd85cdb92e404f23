package controller_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kantorku_backend/internals/features/attendance/records/controller"
	"kantorku_backend/internals/features/attendance/records/repository/memrepo"
	"kantorku_backend/internals/features/attendance/records/service"
	"kantorku_backend/internals/features/attendance/records/source"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
	"kantorku_backend/internals/helpers/dbtime"
)

type fakeSource struct {
	payload string
	err     error
}

func (f fakeSource) Snapshot(ctx context.Context) (*source.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return source.ParseSnapshot([]byte(f.payload))
}

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      json.RawMessage     `json:"data"`
}

func setup(t *testing.T, src source.EventSource) (*fiber.App, *memrepo.Repo, *dbtime.FixedClock) {
	t.Helper()
	loc := dbtime.LoadLocation("Asia/Jakarta")
	clock := &dbtime.FixedClock{T: time.Date(2024, 5, 1, 9, 0, 0, 0, loc)}

	repo := memrepo.New()
	repo.AddEmployee(7, "Budi", true)
	repo.AddEmployee(8, "Sari", true)
	repo.AddTag("TAG1", 7, tagModel.TagStatusActive)
	repo.AddTag("OLD", 8, tagModel.TagStatusInactive)

	var engine *service.Engine
	if src != nil {
		engine = service.NewEngine(src, service.NewNormalizer(repo, repo, clock), clock, 10)
	}
	ctl := controller.NewAttendanceController(controller.Deps{
		Toggler: service.NewToggleService(repo, repo, repo, clock),
		Engine:  engine,
		Summary: service.NewSummaryService(repo, repo, clock, service.ParseCutoff("09:30")),
		Closer:  service.NewCloseDayService(repo, clock),
		Store:   repo,
		Clock:   clock,
	})

	app := fiber.New()
	app.Post("/toggle", ctl.Toggle)
	app.Post("/reconcile", ctl.Reconcile)
	app.Get("/today", ctl.Today)
	app.Get("/today/export", ctl.ExportToday)
	app.Get("/records", ctl.ListByDate)
	app.Get("/records/employee/:employee_id", ctl.ListByEmployee)
	app.Post("/close-day", ctl.CloseDay)
	return app, repo, clock
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func TestToggleEndpointRoundTrip(t *testing.T) {
	app, _, clock := setup(t, nil)

	resp, env := do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1","reader_id":"gate-1"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var in struct {
		Action   string `json:"action"`
		Employee struct {
			Name string `json:"employee_name"`
		} `json:"employee"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &in))
	assert.Equal(t, "checkin", in.Action)
	assert.Equal(t, "Budi", in.Employee.Name)

	clock.Advance(90 * time.Minute)
	resp, env = do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Action string `json:"action"`
		Record struct {
			Duration *int `json:"attendance_duration_minutes"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "checkout", out.Action)
	require.NotNil(t, out.Record.Duration)
	assert.Equal(t, 90, *out.Record.Duration)
}

func TestToggleEndpointErrors(t *testing.T) {
	app, _, _ := setup(t, nil)

	resp, env := do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"GHOST"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.CodeTagNotFound, env.ErrorCode)

	resp, env = do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"OLD"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.CodeTagInactive, env.ErrorCode)

	resp, env = do(t, app, http.MethodPost, "/toggle", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, service.CodeInvalidInput, env.ErrorCode)

	resp, env = do(t, app, http.MethodPost, "/toggle", `{"employee_id":7,"method":"fax"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Errors, "method")

	resp, _ = do(t, app, http.MethodPost, "/toggle", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToggleEndpointIdempotencyHeader(t *testing.T) {
	app, repo, _ := setup(t, nil)

	resp, _ := do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1"}`, "Idempotency-Key", "tap-42")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1"}`, "Idempotency-Key", "tap-42")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var data struct {
		Replayed bool `json:"replayed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Replayed)
	assert.Len(t, repo.Records(), 1)
}

func TestReconcileEndpoint(t *testing.T) {
	app, repo, _ := setup(t, fakeSource{payload: `{"TAG1":{"2024-05-01":{"check_in":"09:05","check_out":"17:00"}}}`})

	resp, env := do(t, app, http.MethodPost, "/reconcile", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var sum service.RunSummary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, 1, sum.Created)
	assert.Len(t, repo.Records(), 1)
}

func TestReconcileEndpointSourceDown(t *testing.T) {
	app, _, _ := setup(t, fakeSource{err: assert.AnError})
	resp, env := do(t, app, http.MethodPost, "/reconcile", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "SOURCE_UNAVAILABLE", env.ErrorCode)

	slow, _, _ := setup(t, fakeSource{err: fmt.Errorf("redis get: %w", context.DeadlineExceeded)})
	resp, env = do(t, slow, http.MethodPost, "/reconcile", "")
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, "RECONCILE_INTERRUPTED", env.ErrorCode)

	noSrc, _, _ := setup(t, nil)
	resp, _ = do(t, noSrc, http.MethodPost, "/reconcile", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTodayAndListEndpoints(t *testing.T) {
	app, _, _ := setup(t, nil)
	_, _ = do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1"}`)

	resp, env := do(t, app, http.MethodGet, "/today", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var sum service.DailySummary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, "2024-05-01", sum.Date)
	assert.Equal(t, 2, sum.TotalEmployees)
	assert.Equal(t, 1, sum.Present)
	assert.Equal(t, 1, sum.StillWorking)

	resp, env = do(t, app, http.MethodGet, "/records?date=2024-05-01", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "attendance_idempotency_key")

	resp, _ = do(t, app, http.MethodGet, "/records?date=01-05-2024", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env = do(t, app, http.MethodGet, "/records/employee/7?per_page=5", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)

	resp, _ = do(t, app, http.MethodGet, "/records/employee/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportEndpoint(t *testing.T) {
	app, _, _ := setup(t, nil)
	_, _ = do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1"}`)

	resp, _ := do(t, app, http.MethodGet, "/today/export", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "kehadiran_2024-05-01.xlsx")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "PK"), "xlsx is a zip archive")
}

func TestCloseDayEndpoint(t *testing.T) {
	app, repo, clock := setup(t, nil)
	_, _ = do(t, app, http.MethodPost, "/toggle", `{"tag_uid":"TAG1"}`)

	clock.Advance(24 * time.Hour)
	resp, env := do(t, app, http.MethodPost, "/close-day", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Before string `json:"before"`
		Closed int64  `json:"closed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "2024-05-02", out.Before)
	assert.Equal(t, int64(1), out.Closed)
	assert.Equal(t, "leave", repo.Records()[0].AttendanceStatus)

	resp, _ = do(t, app, http.MethodPost, "/close-day", `{"before":"kemarin"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
