package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/checker"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/fakedata"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/notebook"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/outcome"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/users"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/testutil/fakeservice"
)

type stubRunner struct {
	report   checker.Report
	err      error
	task     *models.Task
	deadline time.Duration
}

func (s *stubRunner) Handle(ctx context.Context, task *models.Task) (checker.Report, error) {
	s.task = task
	if d, ok := ctx.Deadline(); ok {
		s.deadline = time.Until(d)
	}
	return s.report, s.err
}

func newTestServer(r TaskRunner) *Server {
	return NewServer(":0", r, checker.Info(), logging.Discard(), 10*time.Second, time.Minute)
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestServiceInfo(t *testing.T) {
	s := newTestServer(&stubRunner{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/service", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"serviceName":"n0t3b00k","flagVariants":1,"noiseVariants":1,"havocVariants":3,"exploitVariants":1}`, rec.Body.String())
}

func TestTask_OK(t *testing.T) {
	r := &stubRunner{report: checker.Report{AttackInfo: "alice1700000000000"}}
	s := newTestServer(r)

	rec, out := post(t, s.Handler(), `{"taskId":7,"method":"putflag","address":"10.0.0.1","teamId":3,
		"flag":"ENOabc","variantId":0,"timeout":15000,"roundLength":60000,"taskChainId":"flag_s0_r1_t3_i0"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "OK", out["result"])
	assert.Nil(t, out["message"])
	assert.Equal(t, "alice1700000000000", out["attackInfo"])
	assert.Nil(t, out["flag"])

	require.NotNil(t, r.task)
	assert.Equal(t, int64(7), r.task.ID)
	assert.Equal(t, "putflag", r.task.Method)
	assert.Equal(t, "ENOabc", r.task.Flag)
	assert.Equal(t, 15*time.Second, r.task.Timeout)
	assert.Equal(t, time.Minute, r.task.RoundLength)
	assert.Equal(t, "flag_s0_r1_t3_i0", r.task.TaskChainID)
	assert.InDelta(t, float64(15*time.Second-deadlineMargin), float64(r.deadline), float64(250*time.Millisecond))
	assert.Less(t, r.deadline, 15*time.Second)
}

func TestTask_FailureKinds(t *testing.T) {
	tests := []struct {
		err  error
		want string
		msg  string
	}{
		{outcome.Mumble("Flag is no longer in note", nil), "MUMBLE", "Flag is no longer in note"},
		{outcome.Offline("Failed to establish TCP connection", nil), "OFFLINE", "Failed to establish TCP connection"},
		{outcome.Internal("unsupported task", nil), "INTERNAL_ERROR", "unsupported task"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s := newTestServer(&stubRunner{err: tt.err})
			_, out := post(t, s.Handler(), `{"method":"getflag"}`)
			assert.Equal(t, tt.want, out["result"])
			assert.Equal(t, tt.msg, out["message"])
		})
	}
}

func TestTask_TimeoutBudget(t *testing.T) {
	s := newTestServer(nil)
	assert.Equal(t, 10*time.Second, s.budget(0))
	assert.Equal(t, 3*time.Second-deadlineMargin, s.budget(3*time.Second))
	assert.Equal(t, 800*time.Millisecond, s.budget(800*time.Millisecond), "too short to keep a margin")
	assert.Equal(t, time.Minute, s.budget(time.Hour))
}

func TestTask_BadRequest(t *testing.T) {
	s := newTestServer(&stubRunner{})

	rec, _ := post(t, s.Handler(), `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRun_ServesAndStops(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newTestServer(&stubRunner{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/service")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestTask_EndToEnd(t *testing.T) {
	srv, err := fakeservice.Start()
	require.NoError(t, err)
	defer srv.Close()

	c := checker.NewChecker(users.NewInMemoryRepository(), fakedata.NewGenerator(3),
		func(l logging.Logger) checker.NotebookClient {
			return notebook.NewClient(l, notebook.WithPort(srv.Port()))
		}, logging.Discard())
	h := newTestServer(c).Handler()

	body := func(method string) string {
		b, _ := json.Marshal(map[string]any{
			"taskId": 1, "method": method, "address": srv.Host(), "flag": "ENOe2e",
			"variantId": 0, "timeout": 3000, "taskChainId": "flag_e2e",
		})
		return string(b)
	}

	_, out := post(t, h, body("putflag"))
	require.Equal(t, "OK", out["result"], out["message"])
	assert.NotEmpty(t, out["attackInfo"])

	_, out = post(t, h, body("getflag"))
	assert.Equal(t, "OK", out["result"], out["message"])

	_, out = post(t, h, body("havoc"))
	assert.Equal(t, "OK", out["result"], out["message"])
}
