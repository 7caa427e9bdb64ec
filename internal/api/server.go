// Package api exposes the checker to the game host over HTTP: GET /service
// describes the checker and POST / runs one task.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/checker"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/outcome"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second

	// deadlineMargin is kept back from the host's timeout so the result is
	// written before the host gives up on the request.
	deadlineMargin = 500 * time.Millisecond
)

// TaskRunner executes one task; *checker.Checker implements it.
type TaskRunner interface {
	Handle(ctx context.Context, task *models.Task) (checker.Report, error)
}

type Server struct {
	address        string
	runner         TaskRunner
	info           checker.ServiceInfo
	logger         logging.Logger
	defaultTimeout time.Duration
	maxTimeout     time.Duration
}

func NewServer(address string, runner TaskRunner, info checker.ServiceInfo, l logging.Logger, defaultTimeout, maxTimeout time.Duration) *Server {
	return &Server{
		address:        address,
		runner:         runner,
		info:           info,
		logger:         l.With("module", "http_api"),
		defaultTimeout: defaultTimeout,
		maxTimeout:     maxTimeout,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /service", s.handleInfo)
	mux.HandleFunc("POST /{$}", s.handleTask)
	return mux
}

// Run serves until ctx is cancelled, then drains in-flight tasks.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoMessage(s.info))
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	var msg CheckerTaskMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&msg); err != nil {
		s.logger.Warn(r.Context(), "Invalid task message", "request_id", requestID, "error", err)
		http.Error(w, "invalid task message", http.StatusBadRequest)
		return
	}

	task := msg.toTask()
	ctx, cancel := context.WithTimeout(r.Context(), s.budget(task.Timeout))
	defer cancel()

	report, err := s.runner.Handle(ctx, task)
	res := CheckerResultMessage{Result: outcome.Result(err)}
	if err != nil {
		res.Message = optional(outcome.MessageOf(err))
		s.logger.Info(ctx, "Task result", "request_id", requestID, "task_id", task.ID, "result", res.Result, "error", err)
	} else {
		res.AttackInfo = optional(report.AttackInfo)
		res.Flag = optional(report.Flag)
		s.logger.Debug(ctx, "Task result", "request_id", requestID, "task_id", task.ID, "result", res.Result)
	}

	writeJSON(w, http.StatusOK, res)
}

// budget caps the host's requested timeout; zero means "use the default".
// Requests long enough to afford it lose deadlineMargin.
func (s *Server) budget(requested time.Duration) time.Duration {
	if requested <= 0 {
		return s.defaultTimeout
	}
	if requested > 2*deadlineMargin {
		requested -= deadlineMargin
	}
	if requested > s.maxTimeout {
		return s.maxTimeout
	}
	return requested
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
