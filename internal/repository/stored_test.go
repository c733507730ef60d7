package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pos-terminal/internal/domain"
)

func TestStoredStatusConflict(t *testing.T) {
	assert.ErrorIs(t, storedStatusConflict(domain.StoredCompleted), domain.ErrStoredCompleted)
	assert.ErrorIs(t, storedStatusConflict(domain.StoredExpired), domain.ErrStoredExpired)
	// A pending record that vanished between the update and the check.
	assert.ErrorIs(t, storedStatusConflict(domain.StoredPending), domain.ErrStoredNotFound)
}
