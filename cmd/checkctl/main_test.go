package main

import (
	"bytes"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/testutil/fakeservice"
)

func TestParseTask(t *testing.T) {
	task, err := parseTask([]string{"-p", "2323", "-address", "10.1.2.3", "-method", "putflag", "-variant", "0", "-flag", "ENOx", "-chain", "c1"})
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", task.Address)
	assert.Equal(t, models.MethodPutFlag, task.Method)
	assert.Equal(t, "ENOx", task.Flag)
	assert.Equal(t, "c1", task.TaskChainID)
}

func TestRun(t *testing.T) {
	srv, err := fakeservice.Start()
	require.NoError(t, err)
	defer srv.Close()

	port := strconv.Itoa(srv.Port())
	base := []string{"-p", port, "-l", "error", "-address", srv.Host()}

	var out bytes.Buffer
	code := run(append(base, "-method", "havoc", "-variant", "1"), &out)
	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "OK")

	out.Reset()
	code = run(append(base, "-method", "putflag", "-flag", "ENOcli"), &out)
	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "attack info: ")

	out.Reset()
	code = run(append(base, "-method", "getflag", "-chain", "never"), &out)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "MUMBLE")
}

func TestRun_Offline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	require.NoError(t, ln.Close())

	var out bytes.Buffer
	code := run([]string{"-p", port, "-l", "error", "-address", "127.0.0.1"}, &out)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "OFFLINE")
}

func TestRun_BadConfig(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 2, run([]string{"-f", "crlf"}, &out))
}
