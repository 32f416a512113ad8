package mcperrors

import (
	"errors"
	"testing"

	"github.com/richard-senior/mcp-runtime/pkg/protocol"
	"github.com/stretchr/testify/assert"
)

func TestToWireErrorMapsCodedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  CodedError
		code int
	}{
		{"parse", &ParseError{Err: errors.New("boom")}, protocol.ErrParse},
		{"invalid request", &InvalidRequestError{Reason: "not initialized"}, protocol.ErrInvalidRequest},
		{"method not found", &MethodNotFoundError{Method: "foo/bar"}, protocol.ErrMethodNotFound},
		{"invalid params", &InvalidParamsError{Reason: "missing a"}, protocol.ErrInvalidParams},
		{"internal", &InternalError{Err: errors.New("boom")}, protocol.ErrInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wire := ToWireError(tc.err)
			assert.Equal(t, tc.code, wire.Code)
			assert.NotEmpty(t, wire.Message)
		})
	}
}

func TestServerErrorOffsetsFromBase(t *testing.T) {
	e := &ServerError{Offset: 5, Message: "session evicted"}
	assert.Equal(t, protocol.ErrServerBase-5, e.Code())
}

func TestToWireErrorFallsBackToInternalForPlainErrors(t *testing.T) {
	wire := ToWireError(errors.New("unattributed failure"))
	assert.Equal(t, protocol.ErrInternal, wire.Code)
}

func TestToWireErrorNilIsNil(t *testing.T) {
	assert.Nil(t, ToWireError(nil))
}

func TestParseErrorUnwraps(t *testing.T) {
	inner := errors.New("inner")
	e := &ParseError{Err: inner}
	assert.ErrorIs(t, e, inner)
}
