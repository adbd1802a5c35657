package services_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Brettk80/new2025/internal/config"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type response struct {
	status int
	body   string
}

type call struct {
	method string
	path   string
	query  string
	body   []byte
}

// fakeProject answers PostgREST and storage requests from canned responses
// keyed by "METHOD /path".
type fakeProject struct {
	mu       sync.Mutex
	routes   map[string]response
	prefixes map[string]response
	calls    []call
}

func newProject(t *testing.T) (*fakeProject, *supabase.Client, *supabase.StorageClient) {
	t.Helper()

	fake := &fakeProject{routes: map[string]response{}, prefixes: map[string]response{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := supabase.NewClient(&config.Config{
		SupabaseURL:     srv.URL,
		SupabaseAnonKey: "anon-key",
	}, zap.NewNop(), nil)
	require.NoError(t, err)
	return fake, client, supabase.NewStorageClient(client)
}

func (f *fakeProject) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = response{status: status, body: body}
}

// onPrefix answers every path starting with prefix unless an exact route matches.
func (f *fakeProject) onPrefix(method, prefix string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefixes[method+" "+prefix] = response{status: status, body: body}
}

func (f *fakeProject) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
	key := r.Method + " " + r.URL.Path
	resp, ok := f.routes[key]
	if !ok {
		for prefix, candidate := range f.prefixes {
			if strings.HasPrefix(key, prefix) {
				resp, ok = candidate, true
				break
			}
		}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"TEST","message":"no route for ` + r.Method + " " + r.URL.Path + `","statusCode":"404"}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeProject) callsTo(method, path string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			out = append(out, c)
		}
	}
	return out
}
