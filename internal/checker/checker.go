// Package checker runs check tasks against one notebook instance.
//
// A task names a method and a variant; the pair selects exactly one
// procedure. Procedures drive a NotebookClient over a single connection and
// use the correlation store to hand actors from plant tasks to the matching
// verify tasks. Errors come back classified by the outcome package.
package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/common"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/notebook"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/outcome"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/users"
)

// Variant counts per method family.
const (
	FlagVariants    = 1
	NoiseVariants   = 1
	HavocVariants   = 3
	ExploitVariants = 1
)

// ServiceInfo describes what this checker supports.
type ServiceInfo struct {
	ServiceName     string
	FlagVariants    int
	NoiseVariants   int
	HavocVariants   int
	ExploitVariants int
}

func Info() ServiceInfo {
	return ServiceInfo{
		ServiceName:     notebook.ServiceName,
		FlagVariants:    FlagVariants,
		NoiseVariants:   NoiseVariants,
		HavocVariants:   HavocVariants,
		ExploitVariants: ExploitVariants,
	}
}

// NotebookClient is the protocol surface procedures need; *notebook.Client
// implements it.
type NotebookClient interface {
	Connect(ctx context.Context, address string) error
	Register(ctx context.Context, user *models.User) error
	Login(ctx context.Context, user *models.User) error
	SetNote(ctx context.Context, note string) (string, error)
	GetNote(ctx context.Context, noteID string) (string, error)
	Help(ctx context.Context) (string, error)
	ListUsers(ctx context.Context) ([]string, error)
	ListNotes(ctx context.Context) ([]string, error)
	Dump(ctx context.Context) (string, error)
	Close() error
}

// ClientFactory returns a fresh, unconnected client for one task.
type ClientFactory func(logger logging.Logger) NotebookClient

// Generator supplies actors and filler text.
type Generator interface {
	NewUser(taskChainID, note string) (*models.User, error)
	NoiseText() string
}

// Report carries what a successful task hands back to the host.
type Report struct {
	AttackInfo string
	Flag       string
}

type procedureKey struct {
	method  string
	variant int64
}

type procedure func(ctx context.Context, task *models.Task, log logging.Logger) (Report, error)

type Checker struct {
	store      users.Repository
	gen        Generator
	newClient  ClientFactory
	logger     logging.Logger
	procedures map[procedureKey]procedure
}

func NewChecker(store users.Repository, gen Generator, newClient ClientFactory, logger logging.Logger) *Checker {
	c := &Checker{
		store:     store,
		gen:       gen,
		newClient: newClient,
		logger:    logger.With("module", "checker"),
	}
	c.procedures = map[procedureKey]procedure{
		{models.MethodPutFlag, 0}:  c.putFlag,
		{models.MethodGetFlag, 0}:  c.getFlag,
		{models.MethodPutNoise, 0}: c.putNoise,
		{models.MethodGetNoise, 0}: c.getNoise,
		{models.MethodHavoc, 0}:    c.havocHelp,
		{models.MethodHavoc, 1}:    c.havocUserList,
		{models.MethodHavoc, 2}:    c.havocNoteList,
		{models.MethodExploit, 0}:  c.exploitDump,
	}
	return c
}

// Handle runs task and returns either a Report or an *outcome.Error.
func (c *Checker) Handle(ctx context.Context, task *models.Task) (Report, error) {
	p, ok := c.procedures[procedureKey{task.Method, task.VariantID}]
	if !ok {
		return Report{}, outcome.Internal(fmt.Sprintf("unsupported task %s variant %d", task.Method, task.VariantID), nil)
	}

	log := c.logger.With(
		"task_id", task.ID,
		"method", task.Method,
		"variant", task.VariantID,
		"task_chain_id", task.TaskChainID,
	)
	log.Info(ctx, "Task started", "address", task.Address)
	start := time.Now()

	report, err := p(ctx, task, log)
	if err != nil {
		var classified *outcome.Error
		if !errors.As(err, &classified) {
			err = outcome.Internal("unclassified failure", err)
		}
		log.Warn(ctx, "Task failed", "result", outcome.Result(err), "error", err, "elapsed", time.Since(start))
		return Report{}, err
	}

	log.Info(ctx, "Task finished", "result", outcome.ResultOK, "elapsed", time.Since(start))
	return report, nil
}

// session opens a connected client; the caller must Close it.
func (c *Checker) session(ctx context.Context, task *models.Task, log logging.Logger) (NotebookClient, error) {
	client := c.newClient(log)
	if err := client.Connect(ctx, task.Address); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *Checker) newUser(task *models.Task, note string) (*models.User, error) {
	u, err := c.gen.NewUser(task.TaskChainID, note)
	if err != nil {
		return nil, outcome.Internal("could not generate actor", err)
	}
	return u, nil
}

func (c *Checker) saveUser(ctx context.Context, user *models.User) error {
	if _, err := c.store.Create(ctx, user); err != nil {
		return outcome.Internal("could not persist actor", fmt.Errorf("%w: %w", common.ErrorInternal, err))
	}
	return nil
}

func (c *Checker) loadUser(ctx context.Context, taskChainID string) (*models.User, error) {
	u, err := c.store.GetByTaskChainID(ctx, taskChainID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, outcome.Mumble("Could not find prior actor", err)
	}
	if err != nil {
		return nil, outcome.Internal("could not load actor", fmt.Errorf("%w: %w", common.ErrorInternal, err))
	}
	return u, nil
}
