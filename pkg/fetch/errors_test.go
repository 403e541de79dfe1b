package fetch

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "http status",
			err: &Error{
				Kind:       ErrorKindHTTPStatus,
				StatusCode: 404,
				Message:    "404 Not Found",
			},
			want: "fetch http_status error (status 404): 404 Not Found",
		},
		{
			name: "schema",
			err: &Error{
				Kind:    ErrorKindSchema,
				Message: "missing total count field",
				Err:     ErrMissingTotal,
			},
			want: "fetch schema error: missing total count field: missing total count field",
		},
		{
			name: "transport without cause",
			err: &Error{
				Kind:    ErrorKindTransport,
				Message: "request failed",
			},
			want: "fetch transport error: request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Kind: ErrorKindTransport, Message: "request failed", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var ferr *Error
	if !errors.As(error(err), &ferr) {
		t.Error("errors.As should match *Error")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, should mention the cause", err.Error())
	}
}
