package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errRoot = stderrors.New("root cause")

func TestWrap_KeepsCode(t *testing.T) {
	parse := ParseError("bad rule", errRoot)
	wrapped := Wrap(parse, "discretization failed")

	assert.Equal(t, CodeParseError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, errRoot)
	assert.Equal(t, "discretization failed: bad rule: root cause", wrapped.Error())
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(errRoot, "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, errRoot)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeShapeMismatch, errRoot)
	assert.Equal(t, CodeShapeMismatch, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.ErrorIs(t, err, errRoot)
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(errRoot))
	assert.False(t, IsAppError(errRoot))
}
