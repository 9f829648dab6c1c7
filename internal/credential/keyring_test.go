package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvName(t *testing.T) {
	assert.Equal(t, "NOTIFY_LINKEDIN_PASSWORD", EnvName(PasswordKey("linkedin")))
	assert.Equal(t, "NOTIFY_WORK_MAIL_PASSWORD", EnvName("work.mail-password"))
}

func TestLookup_EnvOverride(t *testing.T) {
	t.Setenv("NOTIFY_INBOX_PASSWORD", "hunter2")

	got, err := Lookup(PasswordKey("inbox"))
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}
