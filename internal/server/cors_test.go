package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCORS(t *testing.T) {
	testCases := []struct {
		name        string
		method      string
		origin      string
		reqHeaders  string
		wantOrigin  string
		wantHeaders string
		wantVary    bool
		wantNext    bool
	}{
		{
			name:        "no origin",
			method:      http.MethodGet,
			wantOrigin:  "*",
			wantHeaders: "Content-Type",
			wantNext:    true,
		},
		{
			name:        "origin is reflected",
			method:      http.MethodGet,
			origin:      "http://dashboard.local:3000",
			wantOrigin:  "http://dashboard.local:3000",
			wantHeaders: "Content-Type",
			wantVary:    true,
			wantNext:    true,
		},
		{
			name:        "preflight is answered directly",
			method:      http.MethodOptions,
			origin:      "http://dashboard.local:3000",
			reqHeaders:  "Authorization, Content-Type",
			wantOrigin:  "http://dashboard.local:3000",
			wantHeaders: "Authorization, Content-Type",
			wantVary:    true,
			wantNext:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusTeapot)
			}))

			req := httptest.NewRequest(tc.method, SyncPath, nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.reqHeaders != "" {
				req.Header.Set("Access-Control-Request-Headers", tc.reqHeaders)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantNext, called)
			if tc.wantNext {
				assert.Equal(t, http.StatusTeapot, rec.Code)
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
			}
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, tc.wantHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
			assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
			assert.Equal(t, tc.wantVary, rec.Header().Get("Vary") != "")
		})
	}
}

func TestWithCORSNil(t *testing.T) {
	assert.Nil(t, WithCORS(nil))
}
