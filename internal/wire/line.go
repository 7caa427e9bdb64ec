package wire

import (
	"bufio"
	"errors"
	"strings"
)

type lineFramer struct {
	r      *bufio.Reader
	limits Limits
}

func (f *lineFramer) ReadGreeting() (string, error) {
	return f.ReadReply()
}

func (f *lineFramer) ReadReply() (string, error) {
	line, err := f.readLine()
	if err != nil {
		return "", err
	}
	if err := f.drainTrailer(); err != nil {
		return "", err
	}
	return line, nil
}

func (f *lineFramer) ReadBlock() (string, error) {
	var (
		lines []string
		total int
	)
	for {
		head, err := f.r.Peek(len(Prompt))
		if err != nil {
			return "", unexpectedEOF(err)
		}
		if string(head) == Prompt {
			if err := f.drainTrailer(); err != nil {
				return "", err
			}
			return strings.Join(lines, "\n"), nil
		}

		line, err := f.readLine()
		if err != nil {
			return "", err
		}
		total += len(line) + 1
		if total > f.limits.MaxReplyBytes {
			return "", ErrReplyTooLarge
		}
		lines = append(lines, line)
	}
}

func (f *lineFramer) readLine() (string, error) {
	var buf []byte
	for {
		chunk, err := f.r.ReadSlice('\n')
		buf = append(buf, chunk...)
		if len(buf) > f.limits.MaxReplyBytes {
			return "", ErrReplyTooLarge
		}
		if err == nil {
			return string(buf[:len(buf)-1]), nil
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return "", unexpectedEOF(err)
		}
	}
}

// drainTrailer discards the two-byte prompt printed after every reply.
func (f *lineFramer) drainTrailer() error {
	if _, err := f.r.Discard(len(Prompt)); err != nil {
		return unexpectedEOF(err)
	}
	return nil
}
