package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/host/session"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := Deps{
		Log:    zap.NewNop(),
		Mgr:    session.NewManager(zap.NewNop()),
		Status: NewStatusCache(StatusOptions{}),
	}
	return NewRouter(deps, []byte("test-secret-00000000000000000000"), false)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateSessionThenStatus(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/sessions", createSessionReq{
		Policy: "rrp", Timeslice: 4, MinimumRemaining: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "rrp", created["policy"])

	rec = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	procs := status["processes"].([]any)
	assert.Len(t, procs, 1)
}

func TestCreateSessionRejectsBadConfig(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/sessions", createSessionReq{
		Timeslice: 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNextAndStopRoundtrip(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/sessions", createSessionReq{
		Timeslice: 4, MinimumRemaining: 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	rec = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var decision map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, "run", decision["kind"])
	assert.EqualValues(t, 1, decision["pid"])

	rec = doJSON(t, r, http.MethodPost, "/api/sessions/"+id+"/stop", stopReq{Reason: "expired"})
	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "success", result["kind"])
}

func TestUnknownSessionReturns404(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/sessions/ghost/status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/sessions/ghost/next", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSessionThenStatusIs404(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/sessions", createSessionReq{Timeslice: 4, MinimumRemaining: 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil)
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/sessions/"+id+"/status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
