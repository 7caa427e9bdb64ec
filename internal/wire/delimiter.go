package wire

import (
	"bufio"
	"bytes"
	"errors"
)

type delimiterFramer struct {
	r      *bufio.Reader
	delim  []byte
	limits Limits
}

func (f *delimiterFramer) ReadGreeting() (string, error) {
	return f.readFrame()
}

func (f *delimiterFramer) ReadReply() (string, error) {
	return f.readFrame()
}

// ReadBlock handles the empty block too: the service then prints only the
// prompt, without the newline that would complete the delimiter.
func (f *delimiterFramer) ReadBlock() (string, error) {
	head, err := f.r.Peek(len(Prompt))
	if err != nil {
		return "", unexpectedEOF(err)
	}
	if string(head) == Prompt {
		if _, err := f.r.Discard(len(Prompt)); err != nil {
			return "", unexpectedEOF(err)
		}
		return "", nil
	}
	return f.readFrame()
}

// readFrame reads until the delimiter and returns what precedes it.
func (f *delimiterFramer) readFrame() (string, error) {
	last := f.delim[len(f.delim)-1]

	var buf []byte
	for {
		chunk, err := f.r.ReadSlice(last)
		buf = append(buf, chunk...)
		if len(buf) > f.limits.MaxReplyBytes+len(f.delim) {
			return "", ErrReplyTooLarge
		}
		if err != nil {
			if errors.Is(err, bufio.ErrBufferFull) {
				continue
			}
			return "", unexpectedEOF(err)
		}
		if bytes.HasSuffix(buf, f.delim) {
			return string(buf[:len(buf)-len(f.delim)]), nil
		}
	}
}
