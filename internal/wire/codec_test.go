package wire

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helpBlock = "\nThis is a notebook service. Commands:\n" +
	"reg USER PW - Register new account\n" +
	"log USER PW - Login to account\n" +
	"set TEXT..... - Set a note\n" +
	"user  - List all users\n" +
	"list - List all notes\n" +
	"exit - Exit!\n" +
	"dump - Dump the database\n" +
	"get ID"

func framer(t *testing.T, f Framing, in string) Framer {
	t.Helper()
	fr, err := NewFramer(f, bufio.NewReader(strings.NewReader(in)), DefaultLimits())
	require.NoError(t, err)
	return fr
}

func TestParseFraming(t *testing.T) {
	f, err := ParseFraming("Line")
	require.NoError(t, err)
	assert.Equal(t, FramingLine, f)

	f, err = ParseFraming(" delimiter ")
	require.NoError(t, err)
	assert.Equal(t, FramingDelimiter, f)

	_, err = ParseFraming("crlf")
	require.ErrorIs(t, err, ErrUnknownFraming)
}

func TestEncodeCommand(t *testing.T) {
	b, err := EncodeCommand("reg", "alice1337", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "reg alice1337 s3cret\n", string(b))

	b, err = EncodeCommand("set", "synergize scalable markets")
	require.NoError(t, err)
	assert.Equal(t, "set synergize scalable markets\n", string(b))

	b, err = EncodeCommand("help")
	require.NoError(t, err)
	assert.Equal(t, "help\n", string(b))
}

func TestEncodeCommand_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
	}{
		{name: "empty command", cmd: ""},
		{name: "command with space", cmd: "get all"},
		{name: "newline in argument", cmd: "set", args: []string{"a\nexit"}},
		{name: "carriage return", cmd: "set", args: []string{"a\r"}},
		{name: "non ascii", cmd: "set", args: []string{"grüße"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeCommand(tt.cmd, tt.args...)
			require.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestCodec_WriteCommandFlushes(t *testing.T) {
	var out bytes.Buffer
	rw := struct {
		io.Reader
		io.Writer
	}{strings.NewReader(""), &out}

	c, err := NewCodec(rw, FramingLine, DefaultLimits())
	require.NoError(t, err)

	require.NoError(t, c.WriteCommand("log", "bob", "pw"))
	assert.Equal(t, "log bob pw\n", out.String(), "command must be on the wire without an explicit flush")

	require.ErrorIs(t, c.WriteCommand("set", "x\ny"), ErrInvalidArgument)
	assert.Equal(t, "log bob pw\n", out.String(), "rejected command must not be written")
}

func TestNewFramer_Unknown(t *testing.T) {
	_, err := NewFramer("crlf", bufio.NewReader(strings.NewReader("")), DefaultLimits())
	require.ErrorIs(t, err, ErrUnknownFraming)
}

func TestLineFramer_GreetingAndReplies(t *testing.T) {
	fr := framer(t, FramingLine, "Welcome to the 1337 n0t3b00k!\n> User successfully registered\n> \n> ")

	g, err := fr.ReadGreeting()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the 1337 n0t3b00k!", g)

	r, err := fr.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "User successfully registered", r)

	empty, err := fr.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	_, err = fr.ReadReply()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLineFramer_BlockStopsAtPrompt(t *testing.T) {
	fr := framer(t, FramingLine, "User 0: alice\nUser 1: bob\n> Successfully logged in!\n> ")

	block, err := fr.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, "User 0: alice\nUser 1: bob", block)

	next, err := fr.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "Successfully logged in!", next, "framing must stay in sync after a block")
}

func TestFramers_EmptyBlock(t *testing.T) {
	for _, f := range []Framing{FramingLine, FramingDelimiter} {
		t.Run(string(f), func(t *testing.T) {
			fr := framer(t, f, "> Successfully logged in!\n> ")
			block, err := fr.ReadBlock()
			require.NoError(t, err)
			assert.Equal(t, "", block)

			next, err := fr.ReadReply()
			require.NoError(t, err)
			assert.Equal(t, "Successfully logged in!", next, "framing must stay in sync after an empty block")
		})
	}
}

func TestDelimiterFramer_BlockAfterEmptyBlock(t *testing.T) {
	fr := framer(t, FramingDelimiter, "> Note 0: 0123456789abcdef0123456789abcdef\n> ")

	empty, err := fr.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	block, err := fr.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, "Note 0: 0123456789abcdef0123456789abcdef", block)
}

func TestDelimiterFramer_EmptyBlockTruncated(t *testing.T) {
	fr := framer(t, FramingDelimiter, ">")
	_, err := fr.ReadBlock()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFramers_HelpBlockIsCanonical(t *testing.T) {
	for _, f := range []Framing{FramingLine, FramingDelimiter} {
		t.Run(string(f), func(t *testing.T) {
			fr := framer(t, f, helpBlock+"\n> ")
			block, err := fr.ReadBlock()
			require.NoError(t, err)
			assert.Equal(t, helpBlock, block)
			assert.Len(t, strings.Split(block, "\n"), 10)
		})
	}
}

func TestDelimiterFramer_Replies(t *testing.T) {
	fr := framer(t, FramingDelimiter, "Welcome to the 1337 n0t3b00k!\n> Note saved! ID is 0123456789abcdef0123456789abcdef!\n> \n> ")

	g, err := fr.ReadGreeting()
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the 1337 n0t3b00k!", g)

	r, err := fr.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "Note saved! ID is 0123456789abcdef0123456789abcdef!", r)

	empty, err := fr.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestDelimiterFramer_PromptInsideLineIsNotADelimiter(t *testing.T) {
	fr := framer(t, FramingDelimiter, "a > b\n> ")
	r, err := fr.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "a > b", r)
}

func TestDelimiterFramer_TruncatedFrame(t *testing.T) {
	fr := framer(t, FramingDelimiter, "Welcome to the")
	_, err := fr.ReadGreeting()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestFramers_ReplyTooLarge(t *testing.T) {
	big := strings.Repeat("x", 64)
	for _, f := range []Framing{FramingLine, FramingDelimiter} {
		t.Run(string(f), func(t *testing.T) {
			fr, err := NewFramer(f, bufio.NewReader(strings.NewReader(big+"\n> ")), Limits{MaxReplyBytes: 16})
			require.NoError(t, err)
			_, err = fr.ReadReply()
			require.True(t, errors.Is(err, ErrReplyTooLarge), "got %v", err)
		})
	}
}
