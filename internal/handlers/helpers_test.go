package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Brettk80/new2025/internal/config"
	"github.com/Brettk80/new2025/internal/handlers"
	"github.com/Brettk80/new2025/internal/middleware"
	"github.com/Brettk80/new2025/internal/notify"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "test-jwt-secret"
	ts         = "2024-01-02T03:04:05Z"
)

type recorded struct {
	method        string
	path          string
	query         string
	authorization string
	body          []byte
}

type reply struct {
	status int
	body   string
}

// fakeSupabase answers REST, auth and storage calls from canned replies
// keyed by "METHOD /path" and records what it received. Realtime joins are
// answered with one delivery change followed by phx_close, or refused when
// rejectJoins is set.
type fakeSupabase struct {
	mu          sync.Mutex
	replies     map[string]reply
	requests    []recorded
	rejectJoins bool
	joins       []json.RawMessage
}

type phxFrame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
}

func (f *fakeSupabase) serveRealtime(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var msg phxFrame
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Event != "phx_join" {
			continue
		}

		f.mu.Lock()
		f.joins = append(f.joins, msg.Payload)
		reject := f.rejectJoins
		f.mu.Unlock()

		status := "ok"
		if reject {
			status = "error"
		}
		_ = conn.WriteJSON(phxFrame{
			Topic:   msg.Topic,
			Event:   "phx_reply",
			Payload: json.RawMessage(`{"status":"` + status + `","response":{}}`),
			Ref:     msg.Ref,
		})
		if reject {
			continue
		}
		_ = conn.WriteJSON(phxFrame{
			Topic: msg.Topic,
			Event: "postgres_changes",
			Payload: json.RawMessage(`{"ids":[1],"data":{"schema":"public","table":"fax_delivery_status",` +
				`"commit_timestamp":"2024-01-02T03:04:05Z","type":"UPDATE",` +
				`"record":{"status":"delivered"},"old_record":{"status":"pending"}}}`),
		})
		_ = conn.WriteJSON(phxFrame{Topic: msg.Topic, Event: "phx_close", Payload: json.RawMessage(`{}`)})
	}
}

func (f *fakeSupabase) realtimeJoins() []json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]json.RawMessage(nil), f.joins...)
}

func (f *fakeSupabase) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{status: status, body: body}
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/realtime/v1/websocket" {
		f.serveRealtime(w, r)
		return
	}
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		method:        r.Method,
		path:          r.URL.Path,
		query:         r.URL.RawQuery,
		authorization: r.Header.Get("Authorization"),
		body:          body,
	})
	rep, ok := f.replies[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"TEST","message":"no route"}`))
		return
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

func (f *fakeSupabase) requestsTo(method, path string) []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recorded
	for _, r := range f.requests {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}
	return out
}

type testAPI struct {
	router *gin.Engine
	fake   *fakeSupabase
	feed   *notify.Feed
	authID uuid.UUID
	userID uuid.UUID
	token  string
}

// newTestAPI wires the real handlers against a fake Supabase project.
// The caller's profile row is already present.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := &fakeSupabase{replies: map[string]reply{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		SupabaseURL:       srv.URL,
		SupabaseAnonKey:   "anon-key",
		SupabaseJWTSecret: testSecret,
		OAuthRedirectURL:  "http://localhost:3000/callback",
	}
	feed := notify.NewFeed(zap.NewNop(), 10)
	client, err := supabase.NewClient(cfg, zap.NewNop(), feed)
	require.NoError(t, err)

	profiles := services.NewProfileService(nil)
	recipients := services.NewRecipientService()

	api := &testAPI{
		fake:   fake,
		feed:   feed,
		authID: uuid.New(),
		userID: uuid.New(),
	}
	api.token = signToken(t, api.authID.String())
	fake.on(http.MethodGet, "/rest/v1/users", http.StatusOK, "["+userJSON(api.userID, api.authID)+"]")

	authHandler := handlers.NewAuthHandler(client, profiles, cfg.OAuthRedirectURL)
	profileHandler := handlers.NewProfileHandler(client, profiles)
	documentsHandler := handlers.NewDocumentsHandler(client, profiles, services.NewDocumentService("fax-documents", nil))
	recipientsHandler := handlers.NewRecipientsHandler(client, profiles, recipients)
	broadcastsHandler := handlers.NewBroadcastsHandler(client, profiles, services.NewBroadcastService(recipients, nil), nil)
	notificationsHandler := handlers.NewNotificationsHandler(feed)

	r := gin.New()
	r.GET("/health", handlers.HealthHandler(client))
	r.POST("/api/v1/auth/signup", authHandler.SignUp)
	r.POST("/api/v1/auth/signin", authHandler.SignIn)
	r.GET("/api/v1/auth/oauth/:provider", authHandler.OAuth)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(cfg))
	v1.POST("/auth/signout", authHandler.SignOut)
	v1.GET("/me", profileHandler.Me)
	v1.PATCH("/me", profileHandler.Update)
	v1.GET("/documents", documentsHandler.List)
	v1.POST("/documents", documentsHandler.Upload)
	v1.GET("/documents/:id/download", documentsHandler.Download)
	v1.DELETE("/documents/:id", documentsHandler.Delete)
	v1.GET("/recipients", recipientsHandler.List)
	v1.POST("/recipients", recipientsHandler.Create)
	v1.DELETE("/recipients/:id", recipientsHandler.Delete)
	v1.GET("/block-list", recipientsHandler.ListBlocked)
	v1.POST("/block-list", recipientsHandler.Block)
	v1.DELETE("/block-list/:id", recipientsHandler.Unblock)
	v1.GET("/broadcasts", broadcastsHandler.List)
	v1.POST("/broadcasts", broadcastsHandler.Create)
	v1.GET("/broadcasts/:id", broadcastsHandler.Get)
	v1.GET("/broadcasts/:id/deliveries", broadcastsHandler.Deliveries)
	v1.GET("/broadcasts/:id/events", broadcastsHandler.Events)
	v1.POST("/broadcasts/:id/cancel", broadcastsHandler.Cancel)
	v1.GET("/notifications", notificationsHandler.Recent)

	api.router = r
	return api
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+a.token)
	return req
}

func signToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": "ops@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func userJSON(id, authID uuid.UUID) string {
	return fmt.Sprintf(`{"id":%q,"auth_id":%q,"email":"ops@example.com","company_name":null,"phone":null,"created_at":%q,"updated_at":%q}`,
		id, authID, ts, ts)
}
