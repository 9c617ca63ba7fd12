package activation

import (
	"context"
	"log/slog"

	"github.com/example/hotel-staff-agent/internal/api"
	"github.com/example/hotel-staff-agent/internal/devinfo"
	"github.com/example/hotel-staff-agent/internal/identity"
	"github.com/example/hotel-staff-agent/internal/logging"
)

// DeviceAPI captures the remote calls the handshake needs.
type DeviceAPI interface {
	RegisterDevice(ctx context.Context, req api.RegisterRequest) error
	DeviceStatus(ctx context.Context, deviceID string) (api.StatusResponse, error)
}

// IdentityStore captures the identity mutation the handshake may perform.
type IdentityStore interface {
	Update(ctx context.Context, update identity.Update) (identity.DeviceIdentity, error)
}

// CookieAsserter re-plants the device id cookie after a handshake.
type CookieAsserter interface {
	Assert(deviceID string)
}

// Client performs the register+status handshake and owns the status machine.
type Client struct {
	api        DeviceAPI
	identities IdentityStore
	cookies    CookieAsserter
	machine    *Machine
	info       devinfo.Info
	logger     *slog.Logger
}

// NewClient constructs an activation client. cookies may be nil when no
// cookie mirror is in play (tests).
func NewClient(deviceAPI DeviceAPI, identities IdentityStore, cookies CookieAsserter, info devinfo.Info, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:        deviceAPI,
		identities: identities,
		cookies:    cookies,
		machine:    NewMachine(logger),
		info:       info,
		logger:     logger,
	}
}

// Status returns the last confirmed activation status.
func (c *Client) Status() Status {
	return c.machine.Current()
}

// StatusFunc exposes Status for dependency injection into the workflows.
func (c *Client) StatusFunc() func() Status {
	return c.Status
}

// Handshake registers the device and queries its activation status. When the
// response carries a server-assigned display name it overwrites the local one.
// Any failure in either call forces the status to Unknown; the caller must
// not assume any other value.
func (c *Client) Handshake(ctx context.Context, id identity.DeviceIdentity) (status Status, err error) {
	logger := logging.Default(ctx, c.logger).With(
		"service", "ActivationClient",
		"operation", "Handshake",
		"device_id", id.DeviceID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "handshake failed", "error", err)
			return
		}
		logger.InfoContext(ctx, "handshake completed", "status", status.String())
	}()

	register := api.RegisterRequest{
		DeviceID:    id.DeviceID,
		DisplayName: id.DisplayName,
		DeviceInfo: api.DeviceInfo{
			UserAgent:   c.info.UserAgent,
			Platform:    c.info.Platform,
			Fingerprint: id.Fingerprint,
		},
	}
	if err = c.api.RegisterDevice(ctx, register); err != nil {
		status = c.machine.Reset()
		return status, err
	}

	resp, statusErr := c.api.DeviceStatus(ctx, id.DeviceID)
	if statusErr != nil {
		err = statusErr
		status = c.machine.Reset()
		return status, err
	}

	if resp.DisplayName != "" && resp.DisplayName != id.DisplayName {
		name := resp.DisplayName
		if _, updateErr := c.identities.Update(ctx, identity.Update{DisplayName: &name}); updateErr != nil {
			logger.WarnContext(ctx, "failed to adopt server display name", "error", updateErr)
		}
	}

	if c.cookies != nil {
		c.cookies.Assert(id.DeviceID)
	}

	status = c.machine.Observe(ParseStatus(resp.Status))
	return status, nil
}
