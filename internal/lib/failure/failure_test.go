package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("polls.Fetch: %w", New("Error loading polls. Please try again.", cause))

	assert.Equal(t, "Error loading polls. Please try again.", Message(err, "fallback"))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fallback", Message(cause, "fallback"))
}

func TestSignIn(t *testing.T) {
	err := fmt.Errorf("vote: %w", SignIn("/polls/17"))

	assert.ErrorIs(t, err, ErrSignInRequired)

	r, ok := IsRedirect(err)
	require.True(t, ok)
	assert.Equal(t, "/sign-in?redirect=/polls/17", r.To)

	_, ok = IsRedirect(errors.New("other"))
	assert.False(t, ok)
}
