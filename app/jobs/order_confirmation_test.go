package jobs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daliaibrahim58/greenmart/app/jobs"
)

// A job without a recipient must fail before it reaches the SMTP layer, so
// the failure in failed_jobs says what is wrong.
func TestConfirmationRequiresRecipient(t *testing.T) {
	j := &jobs.OrderConfirmationJob{OrderID: 7, Customer: "John Doe", Total: 99}

	err := j.Handle()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipient address")
}
