package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(New("database unreachable"), ExitSystem),
			want: "database unreachable",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
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

func TestExitError_Unwrap(t *testing.T) {
	err := NewSystemError(ErrConnectionFailed, "check the inventory file")

	if !stderrors.Is(err, ErrConnectionFailed) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("errors.As should find the ExitError")
	}
	if exitErr.Code != ExitSystem {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitSystem)
	}
	if exitErr.Suggestion == "" {
		t.Error("Suggestion should not be empty")
	}
}

func TestNewUserError(t *testing.T) {
	err := NewUserError(ErrInvalidConfig, "fix the thresholds block")
	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError(ErrInvalidConfig)
	if err.Code != ExitUser {
		t.Errorf("Code = %d, want %d", err.Code, ExitUser)
	}
	if err.Suggestion != "Run: sitereport init" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
}

func TestErrorWrappingChain(t *testing.T) {
	inner := Wrap(ErrNotConfigured, "cache tier probe")
	outer := NewExitError(inner, ExitSystem)

	if !Is(outer, ErrNotConfigured) {
		t.Error("wrapped sentinel should survive the full chain")
	}
}
