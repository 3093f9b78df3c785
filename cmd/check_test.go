package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/secdash/config"
	"github.com/theopenlane/secdash/internal/checkerr"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())

	return cmd, &stdout, &stderr
}

func TestRunCheckPrintsJSON(t *testing.T) {
	disableColor(t)
	t.Chdir(t.TempDir())

	cmd, stdout, stderr := newTestCommand()

	err := runCheck(cmd, "dns", "example.com", func(_ context.Context, _ *cobra.Command, _ *config.Config, _ string) (any, error) {
		return []string{}, nil
	})
	require.NoError(t, err)

	assert.JSONEq(t, `[]`, stdout.String())
	assert.Equal(t, "OK dns example.com\n", stderr.String())
}

func TestRunCheckValidationFailure(t *testing.T) {
	disableColor(t)
	t.Chdir(t.TempDir())

	cmd, stdout, stderr := newTestCommand()

	err := runCheck(cmd, "ssl", "not a domain", checkSSL)
	require.ErrorIs(t, err, checkerr.ErrValidation)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "FAIL ssl not a domain")
}

func TestRunCheckHeadersValidationFailure(t *testing.T) {
	disableColor(t)
	t.Chdir(t.TempDir())

	cmd, _, _ := newTestCommand()

	err := runCheck(cmd, "headers", "ftp://example.com", checkHeaders)
	require.ErrorIs(t, err, checkerr.ErrValidation)
}
