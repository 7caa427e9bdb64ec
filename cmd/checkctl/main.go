// Command checkctl runs a single check task against one notebook instance
// and prints the classified result. Store, framing and timeout settings are
// read the same way the checker service reads them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/app"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/checker"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/config"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/fakedata"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/flagx"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/outcome"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/repomanager"
)

var taskFlags = []string{"-address", "-method", "-variant", "-flag", "-chain", "-regex", "-hash"}

func parseTask(args []string) (*models.Task, error) {
	task := &models.Task{}

	fs := flag.NewFlagSet("checkctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&task.Address, "address", "127.0.0.1", "notebook host")
	fs.StringVar(&task.Method, "method", models.MethodHavoc, "putflag, getflag, putnoise, getnoise, havoc or exploit")
	fs.Int64Var(&task.VariantID, "variant", 0, "variant id")
	fs.StringVar(&task.Flag, "flag", "", "flag to plant or verify")
	fs.StringVar(&task.TaskChainID, "chain", "checkctl", "task chain id")
	fs.StringVar(&task.FlagRegex, "regex", "", "flag regex for exploit tasks")
	fs.StringVar(&task.FlagHash, "hash", "", "sha256 of the expected flag for exploit tasks")

	if err := fs.Parse(flagx.FilterArgs(args, taskFlags)); err != nil {
		return nil, err
	}
	return task, nil
}

func run(args []string, stdout io.Writer) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(stdout, "config: %v\n", err)
		return 2
	}
	task, err := parseTask(args)
	if err != nil {
		fmt.Fprintf(stdout, "flags: %v\n", err)
		return 2
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(stdout, "logger: %v\n", err)
		return 2
	}
	factory, err := app.ClientFactory(cfg)
	if err != nil {
		fmt.Fprintf(stdout, "client: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TaskTimeout)
	defer cancel()

	store, err := repomanager.Open(ctx, cfg.StoreBackend, cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(stdout, "store: %v\n", err)
		return 2
	}
	defer store.Close()

	c := checker.NewChecker(store.Users, fakedata.NewGenerator(0), factory, logger)
	report, err := c.Handle(ctx, task)

	fmt.Fprintln(stdout, outcome.Result(err))
	if err != nil {
		fmt.Fprintf(stdout, "message: %s\n", outcome.MessageOf(err))
		return 1
	}
	if report.AttackInfo != "" {
		fmt.Fprintf(stdout, "attack info: %s\n", report.AttackInfo)
	}
	if report.Flag != "" {
		fmt.Fprintf(stdout, "flag: %s\n", report.Flag)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
