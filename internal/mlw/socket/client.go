package socket

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dimasma0305/mlw/internal/mlw/config"
	"github.com/dimasma0305/mlw/internal/mlw/reload"
	"github.com/dimasma0305/mlw/internal/mlw/watchertypes"
)

// Client talks to a running watcher
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new watcher client
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = config.DefaultRuntime.SocketPath
	}
	return &Client{
		socketPath: socketPath,
		timeout:    30 * time.Second,
	}
}

// SetTimeout sets the connection timeout for the client
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SendCommand sends a command to the watcher and returns the response
func (c *Client) SendCommand(action string, data map[string]interface{}) (*watchertypes.WatcherResponse, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to watcher socket %s: %w", c.socketPath, err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	cmd := watchertypes.WatcherCommand{
		Action: action,
		Data:   data,
	}

	if err := json.NewEncoder(conn).Encode(cmd); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	var response watchertypes.WatcherResponse
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

// Status fetches the watcher status
func (c *Client) Status() (*reload.Status, error) {
	response, err := c.send(ActionStatus, nil)
	if err != nil {
		return nil, err
	}

	var st reload.Status
	if err := decodeData(response.Data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Restart asks the watcher to restart the script now
func (c *Client) Restart() error {
	_, err := c.send(ActionRestart, nil)
	return err
}

// History fetches up to limit restart records, newest first
func (c *Client) History(limit int) ([]watchertypes.RestartRecord, error) {
	response, err := c.send(ActionHistory, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Restarts []watchertypes.RestartRecord `json:"restarts"`
	}
	if err := decodeData(response.Data, &payload); err != nil {
		return nil, err
	}
	return payload.Restarts, nil
}

// IsWatcherRunning checks if a watcher answers on the socket
func (c *Client) IsWatcherRunning() bool {
	_, err := c.send(ActionStatus, nil)
	return err == nil
}

func (c *Client) send(action string, data map[string]interface{}) (*watchertypes.WatcherResponse, error) {
	response, err := c.SendCommand(action, data)
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("%s request failed: %s", action, response.Error)
	}
	return response, nil
}

func decodeData(data map[string]interface{}, v interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
