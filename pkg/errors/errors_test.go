package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneStillMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "work schedule template \"x\" not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidConfiguration))
	assert.Equal(t, "work schedule template \"x\" not found", err.Error())
}

func TestWrappedErrorMatchesThroughFmt(t *testing.T) {
	err := fmt.Errorf("compute: %w", Clonef(ErrUnreachableSchedule, "no workday within %d days", 45))

	assert.True(t, errors.Is(err, ErrUnreachableSchedule))
	assert.Equal(t, http.StatusUnprocessableEntity, FromError(err).Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Nil(t, FromError(nil))
}
