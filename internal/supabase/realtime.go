package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Brettk80/new2025/internal/metrics"
	"github.com/Brettk80/new2025/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	heartbeatInterval = 25 * time.Second
	joinTimeout       = 10 * time.Second
	realtimeVersion   = "1.0.0"
)

// Event is the kind of row change a subscription listens for.
type Event string

const (
	EventInsert Event = "INSERT"
	EventUpdate Event = "UPDATE"
	EventDelete Event = "DELETE"
	EventAll    Event = "*"
)

// ChangePayload is one row change as delivered by the change feed.
type ChangePayload struct {
	Schema          string          `json:"schema"`
	Table           string          `json:"table"`
	CommitTimestamp string          `json:"commit_timestamp"`
	Type            Event           `json:"type"`
	Record          json.RawMessage `json:"record,omitempty"`
	OldRecord       json.RawMessage `json:"old_record,omitempty"`
	Errors          json.RawMessage `json:"errors,omitempty"`
}

type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref,omitempty"`
	JoinRef string          `json:"join_ref,omitempty"`
}

type phxReply struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"`
}

type changeConfig struct {
	Event  Event  `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Filter string `json:"filter,omitempty"`
}

type RealtimeClient struct {
	client    *Client
	dialer    *websocket.Dialer
	heartbeat time.Duration
}

func NewRealtimeClient(client *Client) *RealtimeClient {
	return &RealtimeClient{
		client:    client,
		dialer:    websocket.DefaultDialer,
		heartbeat: heartbeatInterval,
	}
}

type subscribeConfig struct {
	schema string
	filter string
}

type SubscribeOption func(*subscribeConfig)

// WithFilter restricts the feed server side, e.g. "broadcast_id=eq.<id>".
func WithFilter(filter string) SubscribeOption {
	return func(c *subscribeConfig) { c.filter = filter }
}

// WithSchema listens on a schema other than public.
func WithSchema(schema string) SubscribeOption {
	return func(c *subscribeConfig) { c.schema = schema }
}

// Subscription is one joined channel. Callbacks run on its reader goroutine.
type Subscription struct {
	Topic string

	conn      *websocket.Conn
	logger    *zap.Logger
	writeMu   sync.Mutex
	ref       atomic.Int64
	joinRef   string
	done      chan struct{}
	closeOnce sync.Once
}

// Subscribe opens a dedicated channel for table and calls callback for every
// change of kind event. ctx bounds the dial and the join only.
func Subscribe[R, I, U any](ctx context.Context, r *RealtimeClient, table models.Table[R, I, U], event Event, callback func(ChangePayload), opts ...SubscribeOption) (*Subscription, error) {
	return r.Subscribe(ctx, table.String(), event, callback, opts...)
}

func (r *RealtimeClient) Subscribe(ctx context.Context, table string, event Event, callback func(ChangePayload), opts ...SubscribeOption) (*Subscription, error) {
	cfg := subscribeConfig{schema: "public"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if event == "" {
		event = EventAll
	}

	op := "subscribe " + table
	started := time.Now()
	sub, err := r.join(ctx, table, event, cfg)
	observe("realtime", "subscribe", started, err)
	if err != nil {
		return nil, r.client.report(op, err, "Failed to subscribe")
	}

	metrics.RealtimeSubscriptions.Inc()
	go sub.readLoop(callback)
	go sub.heartbeatLoop(r.heartbeat)

	r.client.logger.Info("realtime subscription joined",
		zap.String("topic", sub.Topic),
		zap.String("event", string(event)),
	)
	return sub, nil
}

func (r *RealtimeClient) join(ctx context.Context, table string, event Event, cfg subscribeConfig) (*Subscription, error) {
	endpoint, err := r.websocketURL()
	if err != nil {
		return nil, err
	}

	conn, _, err := r.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial realtime: %w", err)
	}

	sub := &Subscription{
		Topic:  fmt.Sprintf("realtime:db-changes:%s:%s", table, uuid.NewString()),
		conn:   conn,
		logger: r.client.logger,
		done:   make(chan struct{}),
	}
	sub.joinRef = sub.nextRef()

	token := r.client.token
	if token == "" {
		token = r.client.key
	}
	payload := map[string]any{
		"config": map[string]any{
			"broadcast":        map[string]any{"self": false},
			"presence":         map[string]any{"key": ""},
			"postgres_changes": []changeConfig{{Event: event, Schema: cfg.schema, Table: table, Filter: cfg.filter}},
		},
		"access_token": token,
	}
	if err := sub.send("phx_join", sub.Topic, payload, sub.joinRef); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send join: %w", err)
	}

	deadline := time.Now().Add(joinTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := sub.awaitJoin(deadline); err != nil {
		conn.Close()
		return nil, err
	}
	return sub, nil
}

func (s *Subscription) awaitJoin(deadline time.Time) error {
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	for {
		var msg phxMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read join reply: %w", err)
		}
		if msg.Topic != s.Topic || msg.Event != "phx_reply" || msg.Ref != s.joinRef {
			continue
		}

		var reply phxReply
		if err := json.Unmarshal(msg.Payload, &reply); err != nil {
			return fmt.Errorf("failed to decode join reply: %w", err)
		}
		if reply.Status != "ok" {
			return fmt.Errorf("join rejected: %s %s", reply.Status, string(reply.Response))
		}
		return s.conn.SetReadDeadline(time.Time{})
	}
}

func (s *Subscription) readLoop(callback func(ChangePayload)) {
	defer s.Close()

	for {
		var msg phxMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn("realtime connection lost", zap.String("topic", s.Topic), zap.Error(err))
			}
			return
		}
		if msg.Topic != s.Topic {
			continue
		}

		switch msg.Event {
		case "postgres_changes":
			var envelope struct {
				Data ChangePayload `json:"data"`
			}
			if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
				s.logger.Warn("invalid change payload", zap.String("topic", s.Topic), zap.Error(err))
				continue
			}
			callback(envelope.Data)
		case "phx_error", "phx_close":
			s.logger.Warn("realtime channel closed by server",
				zap.String("topic", s.Topic),
				zap.String("event", msg.Event),
			)
			return
		}
	}
}

func (s *Subscription) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.send("heartbeat", "phoenix", map[string]any{}, ""); err != nil {
				s.logger.Warn("realtime heartbeat failed", zap.String("topic", s.Topic), zap.Error(err))
				return
			}
		}
	}
}

// Close leaves the channel and closes the connection. Safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.send("phx_leave", s.Topic, map[string]any{}, s.joinRef)

		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()

		err = s.conn.Close()
		metrics.RealtimeSubscriptions.Dec()
	})
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Done is closed once the subscription has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) send(event, topic string, payload any, joinRef string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := phxMessage{
		Topic:   topic,
		Event:   event,
		Payload: body,
		Ref:     joinRef,
		JoinRef: joinRef,
	}
	if event != "phx_join" {
		msg.Ref = s.nextRef()
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *Subscription) nextRef() string {
	return strconv.FormatInt(s.ref.Add(1), 10)
}

func (r *RealtimeClient) websocketURL() (string, error) {
	u, err := url.Parse(r.client.url)
	if err != nil {
		return "", fmt.Errorf("invalid project url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/realtime/v1/websocket"

	q := url.Values{}
	q.Set("apikey", r.client.key)
	q.Set("vsn", realtimeVersion)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
