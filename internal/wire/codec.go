package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt is what the service prints whenever it waits for a command.
const Prompt = "> "

// Delimiter terminates every reply in delimiter framing.
var Delimiter = []byte("\n" + Prompt)

var (
	ErrReplyTooLarge   = errors.New("wire: reply too large")
	ErrInvalidArgument = errors.New("wire: invalid command argument")
	ErrUnknownFraming  = errors.New("wire: unknown framing")
)

type Framing string

const (
	FramingDelimiter Framing = "delimiter"
	FramingLine      Framing = "line"
)

func ParseFraming(s string) (Framing, error) {
	switch Framing(strings.ToLower(strings.TrimSpace(s))) {
	case FramingDelimiter:
		return FramingDelimiter, nil
	case FramingLine:
		return FramingLine, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFraming, s)
	}
}

// Limits bounds the memory a single reply may use.
type Limits struct {
	MaxReplyBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxReplyBytes: 1 << 20}
}

// Framer decodes replies from the service.
type Framer interface {
	// ReadGreeting reads the banner sent right after connecting.
	ReadGreeting() (string, error)
	// ReadReply reads a single-line reply.
	ReadReply() (string, error)
	// ReadBlock reads a possibly multi-line reply, lines joined by '\n'.
	ReadBlock() (string, error)
}

func NewFramer(f Framing, r *bufio.Reader, limits Limits) (Framer, error) {
	if limits.MaxReplyBytes <= 0 {
		limits = DefaultLimits()
	}
	switch f {
	case FramingLine:
		return &lineFramer{r: r, limits: limits}, nil
	case FramingDelimiter:
		return &delimiterFramer{r: r, delim: Delimiter, limits: limits}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFraming, f)
	}
}

// Codec couples a command writer with the Framer chosen for the connection.
type Codec struct {
	Framer
	w *bufio.Writer
}

func NewCodec(rw io.ReadWriter, f Framing, limits Limits) (*Codec, error) {
	framer, err := NewFramer(f, bufio.NewReader(rw), limits)
	if err != nil {
		return nil, err
	}
	return &Codec{Framer: framer, w: bufio.NewWriter(rw)}, nil
}

// WriteCommand sends one command line and flushes it.
func (c *Codec) WriteCommand(cmd string, args ...string) error {
	line, err := EncodeCommand(cmd, args...)
	if err != nil {
		return err
	}
	if _, err := c.w.Write(line); err != nil {
		return err
	}
	return c.w.Flush()
}

// EncodeCommand renders "cmd arg1 arg2\n". Arguments may contain spaces
// (note text does) but never line breaks, control or non-ASCII bytes.
func EncodeCommand(cmd string, args ...string) ([]byte, error) {
	if cmd == "" || strings.ContainsRune(cmd, ' ') {
		return nil, fmt.Errorf("%w: command %q", ErrInvalidArgument, cmd)
	}
	if err := checkASCII(cmd); err != nil {
		return nil, err
	}
	for _, a := range args {
		if err := checkASCII(a); err != nil {
			return nil, err
		}
	}

	var b strings.Builder
	b.WriteString(cmd)
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func checkASCII(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x7f || (c < 0x20 && c != '\t') {
			return fmt.Errorf("%w: byte 0x%02x at %d", ErrInvalidArgument, c, i)
		}
	}
	return nil
}

// unexpectedEOF turns a clean EOF in the middle of a reply into
// io.ErrUnexpectedEOF: the service hung up before finishing its frame.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
