package sink

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSink_PostsJSON(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotAuth        string
		gotBody        map[string]string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL, srv.Client())
	err := s.Deliver(context.Background(), attendance.Record{Name: "Asha", Type: attendance.ActionCheckOut})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Empty(t, gotAuth)
	assert.Equal(t, map[string]string{"name": "Asha", "type": "Check Out"}, gotBody)
}

func TestWebhookSink_IgnoresResponseStatus(t *testing.T) {
	for _, status := range []int{http.StatusFound, http.StatusBadRequest, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("<html>opaque</html>"))
		}))

		s := NewWebhookSink(srv.URL, &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		})
		err := s.Deliver(context.Background(), attendance.Record{Name: "Asha", Type: attendance.ActionCheckIn})
		assert.NoError(t, err, "status %d", status)

		srv.Close()
	}
}

func TestWebhookSink_SinglePostNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewWebhookSink(srv.URL, nil)
	require.NoError(t, s.Deliver(context.Background(), attendance.Record{Name: "Asha", Type: attendance.ActionCheckIn}))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWebhookSink_TransportErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewWebhookSink(url, nil)
	err := s.Deliver(context.Background(), attendance.Record{Name: "Asha", Type: attendance.ActionCheckIn})
	assert.Error(t, err)
}
