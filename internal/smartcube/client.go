package smartcube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"
)

var (
	ErrNotConnected     = errors.New("smartcube: not connected")
	ErrAlreadyConnected = errors.New("smartcube: already connected")
	ErrServiceNotFound  = errors.New("smartcube: cube service not found")
)

var (
	serviceUUID = bluetooth.NewUUID(uuid.MustParse(ServiceUUID))
	txCharUUID  = bluetooth.NewUUID(uuid.MustParse(TxCharUUID))
	rxCharUUID  = bluetooth.NewUUID(uuid.MustParse(RxCharUUID))
)

// ScanResult is a discovered cube.
type ScanResult struct {
	Name    string
	RSSI    int16
	Address bluetooth.Address
}

// Client manages the Bluetooth link to one cube.
type Client struct {
	adapter *bluetooth.Adapter
	log     *log.Logger

	mu        sync.RWMutex
	device    bluetooth.Device
	rxChar    bluetooth.DeviceCharacteristic
	connected bool
	name      string
	onMessage func(Message)
}

// NewClient enables the default adapter.
func NewClient(logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("cannot enable bluetooth adapter: %w", err)
	}
	return &Client{adapter: adapter, log: logger}, nil
}

// OnMessage sets the callback for decoded notifications. It runs on the
// Bluetooth stack's goroutine.
func (c *Client) OnMessage(fn func(Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = fn
}

// Scan looks for cubes whose advertised name starts with prefix until the
// timeout passes or ctx is done.
func (c *Client) Scan(ctx context.Context, prefix string, timeout time.Duration) ([]ScanResult, error) {
	if c.IsConnected() {
		return nil, ErrAlreadyConnected
	}

	var (
		mu      sync.Mutex
		results []ScanResult
	)
	seen := make(map[string]bool)
	prefix = strings.ToLower(prefix)
	done := make(chan error, 1)

	go func() {
		done <- c.adapter.Scan(func(_ *bluetooth.Adapter, r bluetooth.ScanResult) {
			name := r.LocalName()
			if !strings.HasPrefix(strings.ToLower(name), prefix) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			addr := r.Address.String()
			if seen[addr] {
				return
			}
			seen[addr] = true
			results = append(results, ScanResult{Name: name, RSSI: r.RSSI, Address: r.Address})
		})
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	_ = c.adapter.StopScan()
	if err := <-done; err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return results, nil
}

// Connect opens the link and subscribes to notifications.
func (c *Client) Connect(r ScanResult) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	device, err := c.adapter.Connect(r.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("cannot connect: %w", err)
	}
	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil || len(services) == 0 {
		_ = device.Disconnect()
		if err == nil {
			err = ErrServiceNotFound
		}
		return fmt.Errorf("cannot discover services: %w", err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{txCharUUID, rxCharUUID})
	if err != nil {
		_ = device.Disconnect()
		return fmt.Errorf("cannot discover characteristics: %w", err)
	}

	var tx, rx bluetooth.DeviceCharacteristic
	for _, ch := range chars {
		switch ch.UUID() {
		case txCharUUID:
			tx = ch
		case rxCharUUID:
			rx = ch
		}
	}
	if err := tx.EnableNotifications(c.handleNotification); err != nil {
		_ = device.Disconnect()
		return fmt.Errorf("cannot enable notifications: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.rxChar = rx
	c.connected = true
	c.name = r.Name
	c.mu.Unlock()

	c.log.Info("cube connected", "name", r.Name, "address", r.Address.String())
	return c.SendCommand(CmdRequestBattery)
}

// Disconnect closes the link.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false
	c.name = ""
	return c.device.Disconnect()
}

// IsConnected reports whether a cube is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Name returns the connected cube's advertised name.
func (c *Client) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SendCommand writes a command frame.
func (c *Client) SendCommand(cmd byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected {
		return ErrNotConnected
	}
	data := BuildCommand(cmd)
	_, err := c.rxChar.WriteWithoutResponse(data)
	return err
}

func (c *Client) handleNotification(data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		c.log.Debug("dropping frame", "err", err, "len", len(data))
		return
	}
	c.mu.RLock()
	cb := c.onMessage
	c.mu.RUnlock()
	if cb != nil {
		cb(msg)
	}
}
