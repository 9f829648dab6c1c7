package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/source"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"seeded": 6}, func() string { return "unused" }))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success(nil, func() string { return "done" }))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_YAMLError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "yaml", Writer: buf}

	require.NoError(t, f.Error(ErrCodeNotFound, "category 9 not found", nil))
	assert.Contains(t, buf.String(), "status: error")
	assert.Contains(t, buf.String(), "code: E_NOT_FOUND")
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	require.NoError(t, f.Error(ErrCodeValidation, "invalid importance", nil))
	assert.Empty(t, out.String())
	assert.Equal(t, "Error [E_VALIDATION]: invalid importance\n", errOut.String())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		exit int
		code string
	}{
		{"validation", &lifecycle.ValidationError{Field: "importance", Message: "bad"}, ExitFailure, ErrCodeValidation},
		{"not found", &lifecycle.NotFoundError{Entity: "category", ID: 3}, ExitFailure, ErrCodeNotFound},
		{"storage", &lifecycle.StorageError{Op: "delete", Err: errors.New("disk")}, ExitCommandError, ErrCodeStorage},
		{"auth", &source.AuthError{SourceType: source.SourceTypeEmail, Message: "rejected"}, ExitFailure, ErrCodeAuth},
		{"config", NewExitError(ExitCommandError, "loading config"), ExitCommandError, ErrCodeConfig},
		{"plain", errors.New("boom"), ExitFailure, ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exit, code := classifyError(tt.err)
			assert.Equal(t, tt.exit, exit)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestFail_ReportsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := fail(f, &lifecycle.NotFoundError{Entity: "sorted notification", ID: 4})
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, lifecycle.IsNotFound(err))

	first := buf.Len()
	again := fail(f, err)
	assert.Same(t, err, again)
	assert.Equal(t, first, buf.Len())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "db", errors.New("locked"))))
}
