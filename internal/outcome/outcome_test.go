package outcome

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "offline", err: Offline("connect failed", io.EOF), want: KindOffline},
		{name: "mumble", err: Mumble("bad greeting", nil), want: KindMumble},
		{name: "internal", err: Internal("unknown variant", nil), want: KindInternal},
		{name: "wrapped mumble", err: fmt.Errorf("havoc: %w", Mumble("x", nil)), want: KindMumble},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Offline("read failed", io.ErrUnexpectedEOF))

	assert.True(t, errors.Is(err, ErrOffline))
	assert.False(t, errors.Is(err, ErrMumble))
	assert.False(t, errors.Is(err, ErrInternal))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "cause must stay reachable")
}

func TestResultAndMessage(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil))
	assert.Equal(t, ResultOffline, Result(Offline("a", nil)))
	assert.Equal(t, ResultMumble, Result(Mumble("b", nil)))
	assert.Equal(t, ResultInternal, Result(errors.New("c")))

	assert.Equal(t, "Registration failed", MessageOf(Mumble("Registration failed", io.EOF)))
	assert.Equal(t, "internal checker error", MessageOf(errors.New("secret detail")))
}

func TestError_String(t *testing.T) {
	require.Equal(t, "MUMBLE: Login failed", Mumble("Login failed", nil).Error())
	require.Equal(t, "OFFLINE: read: EOF", Offline("read", io.EOF).Error())
}
