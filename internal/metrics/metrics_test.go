package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrument_PassesStatusThrough(t *testing.T) {
	h := Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestIdentityCounters(t *testing.T) {
	before := testutil.ToFloat64(registerConflicts)
	IncRegisterConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(registerConflicts))

	before = testutil.ToFloat64(rotationConflicts)
	IncRotationConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(rotationConflicts))
}
