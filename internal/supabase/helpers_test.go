package supabase_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Brettk80/new2025/internal/config"
	"github.com/Brettk80/new2025/internal/notify"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAnonKey = "anon-key"

type recordingNotifier struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (n *recordingNotifier) Notify(item notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

func (n *recordingNotifier) All() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.items...)
}

// newTestClient points a client at a fake project served by handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*supabase.Client, *recordingNotifier) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	notifier := &recordingNotifier{}
	client, err := supabase.NewClient(&config.Config{
		SupabaseURL:     srv.URL,
		SupabaseAnonKey: testAnonKey,
	}, zap.NewNop(), notifier)
	require.NoError(t, err)
	return client, notifier
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
