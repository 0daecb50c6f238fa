package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/myducklabs/myduck/internal/config"
	"github.com/myducklabs/myduck/internal/model/duck"
)

// Client supervises the daemon from the foreground process: it checks
// health, launches the daemon lazily, and issues chat calls over the socket.
// A missing daemon is a normal condition, never an error the caller must
// surface.
type Client struct {
	cfg   config.DaemonConfig
	httpc *http.Client
}

// NewClient builds a client whose HTTP transport dials the daemon's unix
// socket regardless of the request host.
func NewClient(cfg config.DaemonConfig) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", cfg.SocketPath)
		},
	}

	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Transport: transport},
	}
}

// Healthy probes GET /health with a short timeout. Any transport error,
// non-2xx status or missing ok flag means not ready.
func (c *Client) Healthy(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, "http://myduckd/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false
	}

	var health duck.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.OK
}

// EnsureRunning returns true once the daemon answers health checks,
// launching it detached if needed. The launch is fire and forget: the daemon
// outlives this process. Gives up after the configured poll budget.
func (c *Client) EnsureRunning(ctx context.Context) bool {
	if c.Healthy(ctx) {
		return true
	}

	if err := c.launchDetached(); err != nil {
		return false
	}

	for i := 0; i < c.cfg.LaunchAttempts; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.cfg.LaunchInterval):
		}
		if c.Healthy(ctx) {
			return true
		}
	}
	return false
}

// launchDetached re-executes this binary with the hidden daemon subcommand,
// fully decoupled from the parent's lifetime and terminal.
func (c *Client) launchDetached() error {
	self, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(self, "daemon")
	cmd.Env = append(os.Environ(), "MYDUCKD_SOCKET="+c.cfg.SocketPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Chat issues the chat-completion call with the client's own timeout, which
// is larger than the provider timeout to absorb daemon-side overhead.
func (c *Client) Chat(ctx context.Context, request duck.ChatRequest) (string, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	chatCtx, cancel := context.WithTimeout(ctx, c.cfg.ChatTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(chatCtx, http.MethodPost, "http://myduckd/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(raw)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", fmt.Errorf("local backend error %d: %s", resp.StatusCode, snippet)
	}

	var completion duck.ChatResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", fmt.Errorf("local backend returned invalid JSON")
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
