package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sagarc03/tinyweb"
)

// demoDevice backs the sample API routes: a status report, an echo and an
// LED that can be switched on and off.
type demoDevice struct {
	started time.Time
	now     func() time.Time
	led     atomic.Bool
	log     *slog.Logger
}

func newDemoDevice(logger *slog.Logger) *demoDevice {
	return &demoDevice{started: time.Now(), now: time.Now, log: logger}
}

type statusReport struct {
	Version  string `json:"version"`
	UptimeMS int64  `json:"uptime_ms"`
	LED      bool   `json:"led"`
}

func (d *demoDevice) status(context.Context, []byte) tinyweb.Response {
	body, err := json.Marshal(statusReport{
		Version:  version,
		UptimeMS: d.now().Sub(d.started).Milliseconds(),
		LED:      d.led.Load(),
	})
	if err != nil {
		d.log.Error("failed to encode status", "err", err)
		return tinyweb.Fail(tinyweb.StateInternalServerError)
	}
	return tinyweb.JSON(body)
}

func (d *demoDevice) echo(_ context.Context, body []byte) tinyweb.Response {
	return tinyweb.Text(string(body))
}

// setLED accepts "on", "off" or an empty body, which toggles.
func (d *demoDevice) setLED(_ context.Context, body []byte) tinyweb.Response {
	switch strings.ToLower(strings.TrimSpace(string(body))) {
	case "on", "1", "true":
		d.led.Store(true)
	case "off", "0", "false":
		d.led.Store(false)
	case "":
		d.led.Store(!d.led.Load())
	default:
		return tinyweb.Fail(tinyweb.StateNotAcceptable)
	}
	d.log.Info("led switched", "on", d.led.Load())
	return tinyweb.Empty()
}

func (d *demoDevice) routes() map[tinyweb.Method][]tinyweb.Route {
	return map[tinyweb.Method][]tinyweb.Route{
		tinyweb.MethodGet:  {{Path: "status", Handler: d.status}},
		tinyweb.MethodPost: {{Path: "echo", Handler: d.echo}},
		tinyweb.MethodPut:  {{Path: "led", Handler: d.setLED}},
	}
}

// registerRoutes installs routes on the engine before it starts serving.
func registerRoutes(engine *tinyweb.Engine, routes map[tinyweb.Method][]tinyweb.Route) error {
	setters := map[tinyweb.Method]func(...tinyweb.Route) error{
		tinyweb.MethodGet:    engine.SetGetHandlers,
		tinyweb.MethodPut:    engine.SetPutHandlers,
		tinyweb.MethodPost:   engine.SetPostHandlers,
		tinyweb.MethodDelete: engine.SetDeleteHandlers,
	}
	for method, rs := range routes {
		if err := setters[method](rs...); err != nil {
			return err
		}
	}
	return nil
}

// routeTable builds the table the dev mirror serves.
func routeTable(routes map[tinyweb.Method][]tinyweb.Route) *tinyweb.RouteTable {
	table := &tinyweb.RouteTable{}
	for method, rs := range routes {
		table.Set(method, rs...)
	}
	return table
}
