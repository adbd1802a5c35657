package supabase

import (
	"strings"

	"github.com/Brettk80/new2025/internal/config"
	"github.com/Brettk80/new2025/internal/notify"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const (
	PlaceholderURL = "https://placeholder.supabase.co"
	PlaceholderKey = "placeholder"
)

// Client owns the platform SDK client plus the logger and notifier every
// wrapper reports through. Construct it once at startup and pass it down.
type Client struct {
	Supabase *supabase.Client

	url      string
	key      string
	token    string
	subject  string
	logger   *zap.Logger
	notifier notify.Notifier
}

// NewClient builds the platform client. Missing credentials do not fail:
// a warning is logged and the client points at a placeholder project, so
// every later operation fails at call time and is reported.
func NewClient(cfg *config.Config, logger *zap.Logger, notifier notify.Notifier) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}

	url := strings.TrimSuffix(cfg.SupabaseURL, "/")
	key := cfg.SupabaseAnonKey
	if url == "" || key == "" {
		logger.Warn("missing Supabase credentials, using placeholder project",
			zap.Bool("url_set", url != ""),
			zap.Bool("key_set", key != ""),
		)
		url = PlaceholderURL
		key = PlaceholderKey
	}

	c := &Client{
		url:      url,
		key:      key,
		logger:   logger,
		notifier: notifier,
	}
	client, err := c.newSDKClient("")
	if err != nil {
		return nil, err
	}
	c.Supabase = client
	return c, nil
}

// WithToken returns a client that sends token as the bearer for every
// subsystem, so row level security applies to the signed-in user.
func (c *Client) WithToken(token string) (*Client, error) {
	scoped := &Client{
		url:      c.url,
		key:      c.key,
		token:    token,
		subject:  c.subject,
		logger:   c.logger,
		notifier: c.notifier,
	}
	client, err := scoped.newSDKClient(token)
	if err != nil {
		return nil, err
	}
	scoped.Supabase = client
	return scoped, nil
}

// WithSubject returns a client whose failure notifications are raised for
// subject, the auth user id the request acts for. The SDK client is shared.
func (c *Client) WithSubject(subject string) *Client {
	scoped := *c
	scoped.subject = subject
	return &scoped
}

func (c *Client) newSDKClient(token string) (*supabase.Client, error) {
	var opts *supabase.ClientOptions
	if token != "" {
		opts = &supabase.ClientOptions{
			Headers: map[string]string{"Authorization": "Bearer " + token},
		}
	}
	client, err := supabase.NewClient(c.url, c.key, opts)
	if err != nil {
		return nil, err
	}
	if token != "" {
		client.Auth = client.Auth.WithToken(token)
	}
	return client, nil
}

func (c *Client) URL() string { return c.url }

// IsPlaceholder reports whether the client was built without real credentials.
func (c *Client) IsPlaceholder() bool { return c.url == PlaceholderURL }

// AccessToken is the user token the client was scoped with, empty for the anon client.
func (c *Client) AccessToken() string { return c.token }

// Subject is the auth user failures are reported for, empty when unset.
func (c *Client) Subject() string { return c.subject }

func (c *Client) Logger() *zap.Logger { return c.logger }
