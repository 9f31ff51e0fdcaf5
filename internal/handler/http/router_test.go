package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClockService struct {
	recorded clock.RecordEventRequest
	reviewed clock.ReviewOffHoursRequest
	err      error
}

func (f *fakeClockService) Record(ctx context.Context, req clock.RecordEventRequest) (clock.EventResponse, error) {
	f.recorded = req
	return clock.EventResponse{ID: "evt-1", EmployeeID: req.EmployeeID, Type: req.Type}, f.err
}

func (f *fakeClockService) SubmitOffHours(ctx context.Context, req clock.SubmitOffHoursRequest) (clock.OffHoursResponse, error) {
	return clock.OffHoursResponse{ID: "req-1", EmployeeID: req.EmployeeID, Status: clock.RequestPending}, f.err
}

func (f *fakeClockService) ApproveOffHours(ctx context.Context, req clock.ReviewOffHoursRequest) (clock.OffHoursResponse, error) {
	f.reviewed = req
	return clock.OffHoursResponse{ID: req.RequestID, Status: clock.RequestApproved}, f.err
}

func (f *fakeClockService) RejectOffHours(ctx context.Context, req clock.ReviewOffHoursRequest) (clock.OffHoursResponse, error) {
	f.reviewed = req
	return clock.OffHoursResponse{ID: req.RequestID, Status: clock.RequestRejected}, f.err
}

type fakeExcuseService struct {
	excuse.Service
	reviewed excuse.ReviewExcuseRequest
}

func (f *fakeExcuseService) Approve(ctx context.Context, req excuse.ReviewExcuseRequest) (excuse.ExcuseResponse, error) {
	f.reviewed = req
	return excuse.ExcuseResponse{ID: req.ExcuseID, Status: excuse.StatusApproved}, nil
}

func (f *fakeExcuseService) ListMine(ctx context.Context, employeeID string) ([]excuse.ExcuseResponse, error) {
	return []excuse.ExcuseResponse{{ID: "exc-1", EmployeeID: employeeID}}, nil
}

type fakeHourBankService struct {
	got hourbank.BalanceRequest
}

func (f *fakeHourBankService) Balance(ctx context.Context, req hourbank.BalanceRequest) (hourbank.BalanceResponse, error) {
	f.got = req
	return hourbank.BalanceResponse{EmployeeID: req.EmployeeID, TotalMinutes: -90}, nil
}

type fakeTeam struct {
	members map[string]string
}

func (f *fakeTeam) View(ctx context.Context, supervisorID string) ([]employee.TeamMemberView, error) {
	var views []employee.TeamMemberView
	for id, sup := range f.members {
		if sup == supervisorID {
			views = append(views, employee.TeamMemberView{EmployeeID: id})
		}
	}
	return views, nil
}

func (f *fakeTeam) EnsureMember(ctx context.Context, supervisorID, employeeID string) error {
	if f.members[employeeID] != supervisorID {
		return employee.ErrNotTeamMember
	}
	return nil
}

type fakeSynchronizer struct{}

func (fakeSynchronizer) Sync(ctx context.Context, employeeID string) (employee.OperationalStatus, bool, error) {
	return employee.OperationalOnBreak, false, nil
}

type fakeScheduleService struct{}

func (fakeScheduleService) AssignSchedule(ctx context.Context, req schedule.AssignScheduleRequest) (schedule.AssignmentResponse, error) {
	return schedule.AssignmentResponse{ID: "asg-1", EmployeeID: req.EmployeeID, ScheduleID: req.ScheduleID, StartDate: req.StartDate}, nil
}

type fakeReconciler struct {
	batchDate time.Time
	dayDate   time.Time
	limit     int
	now       time.Time
}

func (f *fakeReconciler) ReconcileDay(ctx context.Context, employeeID string, date time.Time) (reconciliation.DayResult, error) {
	f.dayDate = date
	return reconciliation.DayResult{EmployeeID: employeeID, Date: date, Outcome: reconciliation.OutcomeWorked}, nil
}

func (f *fakeReconciler) RunBatch(ctx context.Context, date time.Time) (reconciliation.Run, error) {
	f.batchDate = date
	return reconciliation.Run{Date: date, Processed: 3}, nil
}

func (f *fakeReconciler) LatestRuns(ctx context.Context, limit int) ([]reconciliation.Run, error) {
	f.limit = limit
	return []reconciliation.Run{}, nil
}

func (f *fakeReconciler) Location() *time.Location { return time.UTC }
func (f *fakeReconciler) Now() time.Time { return f.now }

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type testServer struct {
	router     http.Handler
	jwt        jwt.Service
	hub        *sse.Hub
	clock      *fakeClockService
	excuse     *fakeExcuseService
	hourBank   *fakeHourBankService
	reconciler *fakeReconciler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		jwt:        jwt.NewJWTService("test-secret", time.Hour),
		hub:        sse.NewHub(),
		clock:      &fakeClockService{},
		excuse:     &fakeExcuseService{},
		hourBank:   &fakeHourBankService{},
		reconciler: &fakeReconciler{now: time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)},
	}
	team := &fakeTeam{members: map[string]string{"emp-1": "sup-1", "emp-2": "sup-2"}}

	ts.router = NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, ts.jwt, Handlers{
		Health:         Health(fakePinger{}),
		Clock:          NewClockHandler(ts.clock),
		Status:         NewStatusHandler(fakeSynchronizer{}),
		HourBank:       NewHourBankHandler(ts.hourBank, team),
		Excuse:         NewExcuseHandler(ts.excuse),
		Team:           NewTeamHandler(team, ts.hub, ts.jwt),
		Schedule:       NewScheduleHandler(fakeScheduleService{}),
		Reconciliation: NewReconciliationHandler(ts.reconciler),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, employeeID string, role auth.Role) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(employeeID, role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, into))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	unhealthy := Health(fakePinger{err: errors.New("connection refused")})
	rec = httptest.NewRecorder()
	unhealthy(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecordClockEvent(t *testing.T) {
	ts := newTestServer(t)

	t.Run("requires a token", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/clock-events", "", `{"type":"clock_in"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a stream token", func(t *testing.T) {
		token, _, err := ts.jwt.GenerateStreamToken("emp-1", auth.RoleEmployee)
		require.NoError(t, err)

		rec := ts.do(t, http.MethodPost, "/api/v1/clock-events", token, `{"type":"clock_in"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("records for the caller", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/clock-events", ts.token(t, "emp-1", auth.RoleEmployee), `{"type":"clock_in"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "emp-1", ts.clock.recorded.EmployeeID)
		assert.Equal(t, clock.EventClockIn, ts.clock.recorded.Type)
	})

	t.Run("invalid type is a validation error", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/clock-events", ts.token(t, "emp-1", auth.RoleEmployee), `{"type":"lunch"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("domain errors are mapped", func(t *testing.T) {
		ts.clock.err = clock.ErrBreakLimitReached
		defer func() { ts.clock.err = nil }()

		rec := ts.do(t, http.MethodPost, "/api/v1/clock-events", ts.token(t, "emp-1", auth.RoleEmployee), `{"type":"break_out"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReviewOffHours(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/off-hours-requests/req-1/approve", ts.token(t, "emp-1", auth.RoleEmployee), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/off-hours-requests/req-1/approve", ts.token(t, "sup-1", auth.RoleSupervisor), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clock.ReviewOffHoursRequest{RequestID: "req-1", ReviewerID: "sup-1"}, ts.clock.reviewed)

	rec = ts.do(t, http.MethodPost, "/api/v1/off-hours-requests/req-2/reject", ts.token(t, "hr-1", auth.RoleHR), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clock.ReviewOffHoursRequest{RequestID: "req-2", ReviewerID: "hr-1", ReviewerIsHR: true}, ts.clock.reviewed)
}

func TestExcuseRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/excuses/me", ts.token(t, "emp-1", auth.RoleEmployee), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []excuse.ExcuseResponse
	decodeData(t, rec, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "emp-1", mine[0].EmployeeID)

	rec = ts.do(t, http.MethodPost, "/api/v1/excuses/exc-1/approve", ts.token(t, "sup-1", auth.RoleSupervisor), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "exc-1", ts.excuse.reviewed.ExcuseID)
	assert.False(t, ts.excuse.reviewed.ReviewerIsHR)
}

func TestMeStatus(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/me/status", ts.token(t, "emp-1", auth.RoleEmployee), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var status employee.StatusResponse
	decodeData(t, rec, &status)
	assert.Equal(t, employee.OperationalOnBreak, status.OperationalStatus)
}

func TestHourBankScope(t *testing.T) {
	ts := newTestServer(t)
	query := "?from=2025-03-01&to=2025-03-31"

	t.Run("own balance", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/me/hour-bank"+query, ts.token(t, "emp-1", auth.RoleEmployee), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "emp-1", ts.hourBank.got.EmployeeID)
	})

	t.Run("missing range", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/me/hour-bank", ts.token(t, "emp-1", auth.RoleEmployee), "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("supervisor sees own team", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/employees/emp-1/hour-bank"+query, ts.token(t, "sup-1", auth.RoleSupervisor), "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("supervisor blocked outside team", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/employees/emp-2/hour-bank"+query, ts.token(t, "sup-1", auth.RoleSupervisor), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("hr sees anyone", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/employees/emp-2/hour-bank"+query, ts.token(t, "hr-1", auth.RoleHR), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "emp-2", ts.hourBank.got.EmployeeID)
	})

	t.Run("employees cannot look up others", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/employees/emp-2/hour-bank"+query, ts.token(t, "emp-1", auth.RoleEmployee), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReconciliationRoutes(t *testing.T) {
	ts := newTestServer(t)
	hr := ts.token(t, "hr-1", auth.RoleHR)

	t.Run("hr only", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/reconciliation/runs", ts.token(t, "sup-1", auth.RoleSupervisor), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no body means yesterday", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/reconciliation/runs", hr, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ts.reconciler.batchDate)
	})

	t.Run("explicit date", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/reconciliation/runs", hr, `{"date":"2025-03-03"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), ts.reconciler.batchDate)
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/reconciliation/runs", hr, `{"date":"03/03/2025"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("single employee", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/reconciliation/employees/emp-1", hr, `{"date":"2025-03-07"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var result reconciliation.DayResult
		decodeData(t, rec, &result)
		assert.Equal(t, "emp-1", result.EmployeeID)
		assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), ts.reconciler.dayDate)
	})

	t.Run("runs limit is capped", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/reconciliation/runs?limit=500", hr, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, maxRunsLimit, ts.reconciler.limit)

		rec = ts.do(t, http.MethodGet, "/api/v1/reconciliation/runs?limit=zero", hr, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAssignSchedule(t *testing.T) {
	ts := newTestServer(t)
	body := `{"employee_id":"emp-1","schedule_id":"sch-1","start_date":"2025-03-01"}`

	rec := ts.do(t, http.MethodPost, "/api/v1/schedules/assignments", ts.token(t, "sup-1", auth.RoleSupervisor), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/schedules/assignments", ts.token(t, "hr-1", auth.RoleHR), body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestTeamStream(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.router)
	defer server.Close()

	rec := ts.do(t, http.MethodPost, "/api/v1/team/stream-token", ts.token(t, "sup-1", auth.RoleSupervisor), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var issued struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	decodeData(t, rec, &issued)
	require.NotEmpty(t, issued.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/team/stream?token="+issued.Token, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q", prefix)
		return ""
	}

	waitFor("event: connected")

	ts.hub.Publish(sse.Event{Topic: "sup-1", Event: "status_changed", Data: map[string]string{"employee_id": "emp-1", "to": "on_break"}})

	assert.Equal(t, "event: status_changed", waitFor("event: status_changed"))
	assert.Contains(t, waitFor("data: "), `"employee_id":"emp-1"`)
}

func TestTeamStreamRequiresSupervisor(t *testing.T) {
	ts := newTestServer(t)

	token, _, err := ts.jwt.GenerateStreamToken("emp-1", auth.RoleEmployee)
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/v1/team/stream?token="+token, "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
