package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"server", NewServer(errors.New("boom")), http.StatusInternalServerError},
		{"not found", NewBusiness("endpoint not found", CodeNotFound), http.StatusNotFound},
		{"conflict", NewBusiness("duplicate update", CodeConflict), http.StatusConflict},
		{"unavailable", NewBusiness("down", CodeUnavailable), http.StatusServiceUnavailable},
		{"invalid format", NewInvalidFormat(), http.StatusBadRequest},
		{"invalid input", NewInvalidInput(nil, "user_id", "is required"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewServerUnwraps(t *testing.T) {
	cause := errors.New("redis down")
	err := NewServer(cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the cause")
	}
	if err.Error() != "redis down" {
		t.Errorf("Error() = %q", err.Error())
	}

	var gerr *Error
	if errors.As(err, &gerr); gerr.Msg() != "Internal server error" {
		t.Errorf("Msg() = %q", gerr.Msg())
	}
}

func TestNewInvalidInputFields(t *testing.T) {
	var gerr *Error
	if !errors.As(NewInvalidInput(nil, "text", "too long"), &gerr) {
		t.Fatal("expected *Error")
	}
	if got := gerr.Fields()["text"]; got != "too long" {
		t.Errorf("Fields()[text] = %q", got)
	}

	if !errors.As(NewInvalidInput(nil, "dangling"), &gerr) {
		t.Fatal("expected *Error")
	}
	if gerr.Code() != CodeInvalidFormat {
		t.Errorf("odd kv Code() = %s, want %s", gerr.Code(), CodeInvalidFormat)
	}
}

func TestCodeAndTypeNames(t *testing.T) {
	if got := CodeConflict.String(); got != "ERROR_CODE_CONFLICT" {
		t.Errorf("CodeConflict = %q", got)
	}
	if got := Code(99).String(); got != "ERROR_CODE_INTERNAL" {
		t.Errorf("unknown code = %q", got)
	}
	if got := Type(99).String(); got != "ERROR_TYPE_UNKNOWN" {
		t.Errorf("unknown type = %q", got)
	}

	var gerr *Error
	errors.As(NewBusiness("", CodeNotFound), &gerr)
	if gerr.Error() != "Business rule violation" {
		t.Errorf("Error() = %q", gerr.Error())
	}
}
