package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP API bind address (e.g. ":5499")
//	-p int        notebook service port
//	-f string     reply framing, "delimiter" or "line"
//	-t duration   default task timeout
//	-m duration   max task timeout
//	-s string     store backend
//	-d string     database DSN
//	-l string     log level
//	-g string     log backend
func parseFlags(config *Config, args []string) error {
	// Filter args to include only the flags handled here.
	args = flagx.FilterArgs(args, []string{"-a", "-p", "-f", "-t", "-m", "-s", "-d", "-l", "-g"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to serve the checker API")
	fs.IntVar(&config.ServicePort, "p", config.ServicePort, "notebook service port")
	fs.StringVar(&config.Framing, "f", config.Framing, "reply framing")
	fs.DurationVar(&config.TaskTimeout, "t", config.TaskTimeout, "default task timeout")
	fs.DurationVar(&config.MaxTaskTimeout, "m", config.MaxTaskTimeout, "max task timeout")
	fs.StringVar(&config.StoreBackend, "s", config.StoreBackend, "store backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogBackend, "g", config.LogBackend, "log backend")

	return fs.Parse(args)
}
