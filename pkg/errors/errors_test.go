package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeEmptyExport, "nothing to export: %d files", 0)

	if err.Code != ErrCodeEmptyExport {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeEmptyExport)
	}

	if err.Message != "nothing to export: 0 files" {
		t.Errorf("Message = %v, want %v", err.Message, "nothing to export: 0 files")
	}

	expected := "EMPTY_EXPORT: nothing to export: 0 files"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("page crashed")
	err := Wrap(ErrCodeRender, cause, "capture anim.json")

	if err.Code != ErrCodeRender {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRender)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidFile, "test"),
			code:     ErrCodeInvalidFile,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidFile, "test"),
			code:     ErrCodeParse,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeRender, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeRender,
			expected: true,
		},
		{
			name:     "file error",
			err:      InvalidFile("a.png", "File is not a .json file!"),
			code:     ErrCodeInvalidFile,
			expected: true,
		},
		{
			name:     "parse failure wrapped with fmt",
			err:      fmt.Errorf("open: %w", ParseFailure("a.json", errors.New("unexpected end of JSON input"))),
			code:     ErrCodeParse,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeEmptyExport, "test"), ErrCodeEmptyExport},
		{"file error", ParseFailure("x.json", errors.New("bad")), ErrCodeParse},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "file error keeps the alert wording",
			err:      InvalidFile("clip.gif", "File is not a .json file!"),
			expected: "There was an error opening the file clip.gif: File is not a .json file!",
		},
		{
			name:     "unidentifiable file",
			err:      InvalidFile("", "File was null!"),
			expected: "There was an error opening the file: File was null!",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFileErrorUnwrap(t *testing.T) {
	cause := errors.New("invalid character '}'")
	err := ParseFailure("a.json", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	var fe *FileError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &fe) {
		t.Fatal("errors.As(*FileError) = false, want true")
	}
	if fe.Name != "a.json" {
		t.Errorf("Name = %q, want %q", fe.Name, "a.json")
	}
}
