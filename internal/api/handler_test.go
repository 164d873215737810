package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"promo-engine/internal/promo"
)

func TestResultStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, resultStatus(promo.Success))
	assert.Equal(t, http.StatusUnprocessableEntity, resultStatus(promo.Error))
	assert.Equal(t, http.StatusConflict, resultStatus(promo.BlockedByPromo))
	assert.Equal(t, http.StatusConflict, resultStatus(promo.Snoozed))
	assert.Equal(t, http.StatusConflict, resultStatus(promo.PermanentlyDismissed))
}

func TestParseReason(t *testing.T) {
	assert.Equal(t, promo.ClosedFeatureEngaged, parseReason("feature_engaged"))
	assert.Equal(t, promo.ClosedDismiss, parseReason("dismiss"))
	assert.Equal(t, promo.ClosedSnooze, parseReason("snooze"))
	assert.Equal(t, promo.ClosedAbortedByFeature, parseReason(""))
	assert.Equal(t, promo.ClosedAbortedByFeature, parseReason("whatever"))
}
