// Package driver implements the engine that mediates between a host
// scene graph and remote renderers.
//
// The driver owns one transport at a time. Host-side scene changes are
// encoded into protocol commands and pushed through it; renderer events
// come back, are decoded, and are translated into host input. A lost
// transport is re-dialed forever on a fixed interval, and every fresh
// renderer is brought up to date by a full resync when it reports Ready.
//
// All mutable driver state lives in a single event-loop goroutine.
// Host-facing operations enqueue work onto that loop and return without
// waiting for it to run; the Connected and Server queries wait for the
// loop's answer. Nothing in the driver ever surfaces a runtime error to
// the host.
package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/drawbridge-dev/drawbridge/pkg/protocol"
	"github.com/drawbridge-dev/drawbridge/pkg/scene"
	"github.com/drawbridge-dev/drawbridge/pkg/transport"
)

// Driver bridges a host scene graph to remote renderers.
type Driver struct {
	cfg     Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics

	ops      chan func()
	notify   chan transport.Notify
	done     chan struct{}
	stopOnce sync.Once

	// retry fires when it is time to re-dial the transport. It is
	// created stopped and armed by scheduleReconnect.
	retry *time.Timer

	// State below is owned by the run loop.
	tr        transport.Transport
	connected bool
	synced    bool
	recvBuf   []byte
	media     mediaCache
}

// New creates a driver. Configuration problems are the only errors the
// driver ever returns; call Start to begin connecting.
func New(cfg Config) (*Driver, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:     cfg,
		logger:  cfg.Logger.With("component", "driver"),
		tracer:  otel.Tracer("github.com/drawbridge-dev/drawbridge/pkg/driver"),
		metrics: driverMetrics(),
		ops:     make(chan func(), 64),
		notify:  make(chan transport.Notify, 64),
		done:    make(chan struct{}),
		media:   newMediaCache(),
	}
	d.retry = time.NewTimer(time.Hour)
	d.retry.Stop()
	d.cfg.Transport.Logger = cfg.Logger
	return d, nil
}

// Start launches the event loop and the first connect attempt. The
// driver runs until ctx is cancelled or Stop is called.
func (d *Driver) Start(ctx context.Context) {
	go d.run(ctx)
	d.dispatch(d.connect)
}

// Stop disconnects the transport and halts the event loop.
func (d *Driver) Stop() {
	d.dispatch(func() {
		d.closeTransport()
		d.stopOnce.Do(func() { close(d.done) })
	})
}

// dispatch enqueues fn onto the event loop.
func (d *Driver) dispatch(fn func()) {
	select {
	case d.ops <- fn:
	case <-d.done:
	}
}

// run is the driver actor: the only goroutine that touches driver state.
func (d *Driver) run(ctx context.Context) {
	for {
		select {
		case fn := <-d.ops:
			fn()
		case n := <-d.notify:
			d.handleNotify(n)
		case <-d.retry.C:
			d.connect()
		case <-ctx.Done():
			d.closeTransport()
			return
		case <-d.done:
			return
		}
	}
}

// --- Host-facing operations -------------------------------------------

// ResetScene tells renderers to drop all scripts and clears the media
// cache, so subsequent updates retransmit assets.
func (d *Driver) ResetScene() {
	d.dispatch(func() {
		d.media.reset()
		d.send(protocol.EncodeReset())
	})
}

// ClearColor sets the renderer background color.
func (d *Driver) ClearColor(c protocol.Color) {
	d.dispatch(func() {
		d.send(protocol.EncodeClearColor(c))
	})
}

// UpdateScripts pushes the named scripts (and any assets they reference
// that this connection has not seen) to the renderers, then emits a
// single Render. Ids the source no longer knows are skipped.
func (d *Driver) UpdateScripts(ids []protocol.ID) {
	d.dispatch(func() { d.updateScriptsNow(ids) })
}

func (d *Driver) updateScriptsNow(ids []protocol.ID) {
	_, span := d.tracer.Start(context.Background(), "driver.update_scripts",
		trace.WithAttributes(attribute.Int("scripts", len(ids))))
	defer span.End()

	for _, id := range ids {
		d.putScript(id)
	}
	d.send(protocol.EncodeRender())
}

// DelScripts removes the named scripts from the renderers.
func (d *Driver) DelScripts(ids []protocol.ID) {
	d.dispatch(func() {
		for _, id := range ids {
			d.send(protocol.EncodeDelScript(id))
		}
	})
}

// RequestInput is accepted for host-framework compatibility and does
// nothing: renderers deliver input unsolicited.
func (d *Driver) RequestInput(flags uint32) {}

// SetCursorTransform pushes a cursor transform to the renderers.
func (d *Driver) SetCursorTransform(tx protocol.Transform) {
	d.dispatch(func() {
		d.send(protocol.EncodeCursorTx(tx))
	})
}

// SendQuit asks the renderers to shut down. The driver itself keeps
// running; use Stop to halt it.
func (d *Driver) SendQuit() {
	d.dispatch(func() {
		d.send(protocol.EncodeQuit())
	})
}

// Connected reports whether the transport can currently reach a
// renderer.
func (d *Driver) Connected() bool {
	reply := make(chan bool, 1)
	d.dispatch(func() {
		reply <- d.connected && d.tr != nil && d.tr.Connected()
	})
	select {
	case v := <-reply:
		return v
	case <-d.done:
		return false
	}
}

// Server returns the underlying multi-client server when the driver is
// configured with the tcp_server transport, for observability surfaces.
func (d *Driver) Server() *transport.Server {
	reply := make(chan *transport.Server, 1)
	d.dispatch(func() {
		s, _ := d.tr.(*transport.Server)
		reply <- s
	})
	select {
	case s := <-reply:
		return s
	case <-d.done:
		return nil
	}
}

// --- Connection state machine -----------------------------------------

// connect dials the configured transport. Failure schedules the next
// attempt; reconnection is unbounded.
func (d *Driver) connect() {
	_, span := d.tracer.Start(context.Background(), "driver.connect",
		trace.WithAttributes(attribute.String("kind", string(d.cfg.Transport.Kind))))
	defer span.End()

	d.metrics.reconnectsTotal.Inc()

	tr, err := transport.Dial(d.cfg.Transport, d.notify)
	if err != nil {
		d.logger.Warn("connect failed",
			"kind", d.cfg.Transport.Kind,
			"error", err,
			"retry_in", d.cfg.ReconnectInterval)
		d.scheduleReconnect()
		return
	}

	d.tr = tr
	d.connected = true
	d.synced = false
	d.recvBuf = nil
	d.media.reset()
	d.metrics.connected.Set(1)
	d.logger.Info("transport up", "kind", d.cfg.Transport.Kind)
}

// scheduleReconnect arms the retry timer.
func (d *Driver) scheduleReconnect() {
	d.retry.Reset(d.cfg.ReconnectInterval)
}

// closeTransport drops the current transport without scheduling a
// retry.
func (d *Driver) closeTransport() {
	if d.tr != nil {
		// Detach first so a stale notification from the dying transport
		// cannot be mistaken for one from its successor.
		d.tr.SetOwner(nil)
		d.tr.Disconnect()
		d.tr = nil
	}
	d.connected = false
	d.synced = false
	d.recvBuf = nil
	d.metrics.connected.Set(0)
}

// lost is the common path for transport loss: drop the handle and try
// again after the reconnect interval.
func (d *Driver) lost(reason string, err error) {
	d.logger.Warn("transport lost",
		"reason", reason,
		"error", err,
		"retry_in", d.cfg.ReconnectInterval)
	d.closeTransport()
	d.scheduleReconnect()
}

// send transmits one encoded frame. While disconnected this is a silent
// drop, not an error: the scene keeps evolving in memory and the next
// Ready resyncs the renderer.
func (d *Driver) send(frame []byte) {
	if !d.connected || d.tr == nil {
		d.logger.Debug("send dropped while disconnected",
			"type", protocol.CommandName(protocol.FrameType(frame[0])))
		return
	}
	if err := d.tr.Send(frame); err != nil {
		d.lost("send failed", err)
		return
	}
	d.metrics.framesSent.Inc()
}

// --- Inbound path -----------------------------------------------------

// handleNotify processes one transport notification.
func (d *Driver) handleNotify(n transport.Notify) {
	if d.tr == nil {
		return // notification from a transport already dropped
	}
	switch n.Kind {
	case transport.NotifyData:
		// Raw bytes from clients, complete frames from the server.
		// Both run through the extractor: complete frames pass straight
		// through it.
		d.recvBuf = append(d.recvBuf, n.Data...)
		frames, residual, err := protocol.ExtractMax(d.recvBuf, d.maxPayload())
		if err != nil {
			d.lost("oversize frame", err)
			return
		}
		d.recvBuf = residual
		for _, frame := range frames {
			d.metrics.framesReceived.Inc()
			ev, err := protocol.DecodeEventFrame(frame)
			if err != nil {
				continue // extractor guarantees this cannot happen
			}
			d.handleEvent(ev)
		}

	case transport.NotifyClosed:
		d.lost("closed", nil)

	case transport.NotifyError:
		d.lost("error", n.Err)
	}
}

func (d *Driver) maxPayload() uint32 {
	if d.cfg.Transport.MaxPayload > 0 {
		return d.cfg.Transport.MaxPayload
	}
	return protocol.DefaultMaxPayload
}

// handleEvent reacts to one decoded renderer event.
func (d *Driver) handleEvent(ev protocol.Event) {
	d.metrics.eventsTotal.WithLabelValues(protocol.EventName(ev.Kind())).Inc()

	switch e := ev.(type) {
	case protocol.Ready:
		d.resync()

	case protocol.Reshape:
		d.reshape(e)

	case protocol.Stats:
		rendererBytes.Add(e.BytesReceived)
		d.metrics.rendererBytes.Add(float64(e.BytesReceived))

	case protocol.Log:
		d.logger.Log(context.Background(), e.Level,
			"renderer: "+string(e.Message))

	case protocol.CursorEnter:
		// Decoded but not forwarded; no host input maps to it.
		d.logger.Debug("cursor enter", "entered", e.Entered)

	case protocol.Unknown:
		d.logger.Debug("unknown event discarded",
			"code", e.Code, "payload_len", len(e.Payload))

	default:
		d.translateInput(ev)
	}
}

// resync replays the entire live scene to the renderers: every script,
// each preceded by those of its assets not yet sent on this connection,
// then exactly one Render. This
// converges a fresh renderer on the current scene regardless of what it
// displayed before.
func (d *Driver) resync() {
	_, span := d.tracer.Start(context.Background(), "driver.resync")
	defer span.End()

	ids := d.cfg.Source.LiveIDs()
	d.logger.Info("renderer ready, resyncing", "scripts", len(ids))

	for _, id := range ids {
		d.putScript(id)
	}
	d.send(protocol.EncodeRender())
	d.synced = true
}

// putScript sends one script, preceded by any of its assets this
// connection has not yet transmitted.
func (d *Driver) putScript(id protocol.ID) {
	s, ok := d.cfg.Source.Script(id)
	if !ok {
		d.logger.Debug("script not in source", "id", id.String())
		return
	}
	d.ensureMedia(s)
	d.send(protocol.EncodePutScript(id, s.Data))
}

// reshape forwards the device size to the host, then fits the design
// canvas onto it and pushes the resulting transform plus a Render.
func (d *Driver) reshape(e protocol.Reshape) {
	d.cfg.Input.Input(scene.Reshape{Width: e.Width, Height: e.Height})

	tx := FitTransform(e.Width, e.Height, d.cfg.DesignWidth, d.cfg.DesignHeight)
	d.send(protocol.EncodeGlobalTx(tx))
	d.send(protocol.EncodeRender())
}
