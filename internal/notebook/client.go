package notebook

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/models"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/outcome"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/wire"
)

const (
	defaultDialTimeout = 5 * time.Second
	exitWriteTimeout   = 200 * time.Millisecond
)

// Dialer opens the TCP connection; *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

type Option func(*Client)

func WithPort(port int) Option {
	return func(c *Client) { c.port = port }
}

func WithFraming(f wire.Framing) Option {
	return func(c *Client) { c.framing = f }
}

func WithLimits(l wire.Limits) Option {
	return func(c *Client) { c.limits = l }
}

func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) { c.dialer = &net.Dialer{Timeout: d} }
}

// Client talks to one notebook instance over one connection. It is not safe
// for concurrent use and is not reusable once closed.
type Client struct {
	logger  logging.Logger
	dialer  Dialer
	port    int
	framing wire.Framing
	limits  wire.Limits

	conn  net.Conn
	codec *wire.Codec
	state State
	user  *models.User
}

func NewClient(logger logging.Logger, opts ...Option) *Client {
	c := &Client{
		logger:  logger.With("module", "notebook_client"),
		dialer:  &net.Dialer{Timeout: defaultDialTimeout},
		port:    DefaultPort,
		framing: wire.FramingDelimiter,
		limits:  wire.DefaultLimits(),
		state:   StateDisconnected,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) State() State {
	return c.state
}

// Connect dials address on the service port and checks the greeting.
func (c *Client) Connect(ctx context.Context, address string) error {
	if c.state != StateDisconnected {
		return outcome.Internal("connect on a "+c.state.String()+" client", nil)
	}

	target := net.JoinHostPort(address, strconv.Itoa(c.port))
	c.logger = c.logger.With("address", target)
	c.logger.Info(ctx, "Connecting to service")

	conn, err := c.dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		c.state = StateClosed
		c.logger.Warn(ctx, "Connect failed", "error", err)
		return outcome.Offline("Failed to establish TCP connection", err)
	}

	codec, err := wire.NewCodec(conn, c.framing, c.limits)
	if err != nil {
		c.state = StateClosed
		_ = conn.Close()
		return outcome.Internal("unusable framing", err)
	}
	c.conn = conn
	c.codec = codec

	stop := c.bind(ctx)
	defer stop()

	c.logger.Debug(ctx, "Wait for welcome message")
	greeting, err := c.codec.ReadGreeting()
	if err != nil {
		return c.readFailure(ctx, "No welcome message received", err)
	}

	c.state = StateConnected
	if greeting != WelcomeMessage {
		c.logger.Warn(ctx, "Received no welcome message", "reply", greeting)
		return outcome.Mumble("No welcome message received", nil)
	}
	return nil
}

// Register creates user on the service.
func (c *Client) Register(ctx context.Context, user *models.User) error {
	c.logger.Info(ctx, "Registering user", "username", user.Username)
	c.user = user

	reply, err := c.exchange(ctx, "Connection error during registration", false, cmdRegister, user.Username, user.Password)
	if err != nil {
		return err
	}
	if reply != RegisterSuccess {
		c.logger.Warn(ctx, "Unexpected response", "command", cmdRegister, "reply", reply)
		return outcome.Mumble("Registration failed", nil)
	}
	return nil
}

// Login authenticates the connection as user.
func (c *Client) Login(ctx context.Context, user *models.User) error {
	c.logger.Info(ctx, "Logging in", "username", user.Username)
	c.user = user

	reply, err := c.exchange(ctx, "Connection error during login", false, cmdLogin, user.Username, user.Password)
	if err != nil {
		return err
	}
	if reply != LoginSuccess {
		c.logger.Warn(ctx, "Unexpected response", "command", cmdLogin, "reply", reply)
		return outcome.Mumble("Login failed", nil)
	}
	c.state = StateAuthenticated
	return nil
}

// SetNote stores note and returns the id the service assigned to it.
func (c *Client) SetNote(ctx context.Context, note string) (string, error) {
	if note == "" {
		return "", outcome.Internal("refusing to store an empty note", nil)
	}

	reply, err := c.exchange(ctx, "Connection error during set note", false, cmdSet, note)
	if err != nil {
		return "", err
	}

	id, err := parseNoteID(reply)
	if err != nil {
		c.logger.Warn(ctx, "Unexpected response", "command", cmdSet, "reply", reply, "error", err)
		return "", outcome.Mumble("Set note failed", err)
	}
	return id, nil
}

// GetNote returns the raw reply to "get <id>".
func (c *Client) GetNote(ctx context.Context, noteID string) (string, error) {
	reply, err := c.exchange(ctx, "Connection error during get note", false, cmdGet, noteID)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", outcome.Mumble("Did not receive note", nil)
	}
	return reply, nil
}

// Help returns the aggregated help block.
func (c *Client) Help(ctx context.Context) (string, error) {
	return c.exchange(ctx, "Connection error during help", true, cmdHelp)
}

// ListUsers returns every username in the "user" listing, in order.
func (c *Client) ListUsers(ctx context.Context) ([]string, error) {
	block, err := c.exchange(ctx, "Connection error during user list", true, cmdUsers)
	if err != nil {
		return nil, err
	}
	users, err := parseIndexedList(block)
	if err != nil {
		c.logger.Warn(ctx, "Get users failed", "reply", block, "error", err)
		return nil, outcome.Mumble("Invalid user list", err)
	}
	return users, nil
}

// ListNotes returns the ids of the logged-in user's notes, in order.
func (c *Client) ListNotes(ctx context.Context) ([]string, error) {
	block, err := c.exchange(ctx, "Connection error during note list", true, cmdList)
	if err != nil {
		return nil, err
	}
	notes, err := parseIndexedList(block)
	if err != nil {
		c.logger.Warn(ctx, "Get notes failed", "reply", block, "error", err)
		return nil, outcome.Mumble("Invalid note list", err)
	}
	return notes, nil
}

// Dump returns the raw reply to the debug "dump" command.
func (c *Client) Dump(ctx context.Context) (string, error) {
	return c.exchange(ctx, "Connection error during dump", true, cmdDump)
}

// Close says goodbye if the session is still usable and releases the
// socket. It is safe to call more than once.
func (c *Client) Close() error {
	prev := c.state
	c.state = StateClosed
	if c.conn == nil || prev == StateClosed {
		return nil
	}

	if prev == StateConnected || prev == StateAuthenticated {
		_ = c.conn.SetWriteDeadline(time.Now().Add(exitWriteTimeout))
		_ = c.codec.WriteCommand(cmdExit)
	}

	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// exchange sends one command and reads its reply. ioMessage is the
// operator-facing text used when the transport fails.
func (c *Client) exchange(ctx context.Context, ioMessage string, block bool, cmd string, args ...string) (string, error) {
	if c.state != StateConnected && c.state != StateAuthenticated {
		return "", outcome.Internal(cmd+" on a "+c.state.String()+" client", nil)
	}

	stop := c.bind(ctx)
	defer stop()

	c.logger.Debug(ctx, "Sending command", "command", cmd, "args", args)
	if err := c.codec.WriteCommand(cmd, args...); err != nil {
		if errors.Is(err, wire.ErrInvalidArgument) {
			return "", outcome.Internal("cannot encode "+cmd+" command", err)
		}
		return "", c.ioFailure(ctx, ioMessage, err)
	}

	var (
		reply string
		err   error
	)
	if block {
		reply, err = c.codec.ReadBlock()
	} else {
		reply, err = c.codec.ReadReply()
	}
	if err != nil {
		return "", c.readFailure(ctx, ioMessage, err)
	}

	c.logger.Debug(ctx, "Received reply", "command", cmd, "reply", reply)
	return reply, nil
}

// bind ties the connection to ctx: its deadline becomes the socket deadline
// and cancellation closes the socket so blocked I/O returns at once.
func (c *Client) bind(ctx context.Context) func() {
	deadline, _ := ctx.Deadline()
	_ = c.conn.SetDeadline(deadline)

	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	return func() { stop() }
}

func (c *Client) readFailure(ctx context.Context, msg string, err error) error {
	if errors.Is(err, wire.ErrReplyTooLarge) {
		c.logger.Warn(ctx, "Reply exceeds limit", "error", err)
		return outcome.Mumble("Reply too large", err)
	}
	return c.ioFailure(ctx, msg, err)
}

// ioFailure marks the connection dead; there is no reconnect.
func (c *Client) ioFailure(ctx context.Context, msg string, err error) error {
	c.state = StateClosed
	_ = c.conn.Close()

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Warn(ctx, "Operation aborted", "error", ctxErr)
		return outcome.Offline(msg+" (timeout)", ctxErr)
	}
	args := []any{"error", err}
	if c.user != nil {
		args = append(args, "username", c.user.Username)
	}
	c.logger.Warn(ctx, msg, args...)
	return outcome.Offline(msg, err)
}
