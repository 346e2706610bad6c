package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gp_planner/pkg/contextx"
	"gp_planner/pkg/logx"
	"gp_planner/pkg/middlewarex"
)

func TestTraceID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated"},
		{name: "propagated", incoming: "client-trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			var seen contextx.TraceID

			h := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				id, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)
				seen = id
			}))

			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.incoming != "" {
				r.Header.Set("X-Trace-Id", tt.incoming)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			rq.NotEmpty(seen.String())
			rq.Equal(seen.String(), w.Header().Get("X-Trace-Id"))

			if tt.incoming != "" {
				rq.Equal(tt.incoming, seen.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rq.Equal(http.StatusInternalServerError, w.Code)
	rq.Contains(w.Body.String(), `"code":"InternalServerError"`)
}

func TestLoggingChain(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewNopSensitiveDataMasker()

	h := middlewarex.TraceID(middlewarex.Logger(
		middlewarex.RequestLogging(masker, 64)(
			middlewarex.ResponseLogging(masker, 64)(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusTeapot)
					_, _ = w.Write([]byte(strings.Repeat("x", 128)))
				}),
			),
		),
	))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"goal_gp":1}`)))

	rq.Equal(http.StatusTeapot, w.Code)
	rq.Len(w.Body.String(), 128)
}
