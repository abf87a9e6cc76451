package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lifeline-ops/ambutrack/pkg/concurrent"
	"github.com/lifeline-ops/ambutrack/pkg/geo"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
)

type subscribeRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,max=64"`
}

// Client is one dashboard WebSocket connection. A client subscribes to a
// vehicle and then receives "frame" messages on every interpolation frame
// and throttled "camera" messages.
type Client struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub

	mu      sync.Mutex
	cancels []func()
}

func (c *Client) readRequest() (*subscribeRequest, error) {
	c.io.Lock()
	defer c.io.Unlock()

	h, r, err := wsutil.NextReader(c.conn, ws.StateServerSide)
	if err != nil {
		return nil, err
	}
	if h.OpCode.IsControl() {
		return nil, wsutil.ControlFrameHandler(c.conn, ws.StateServerSide)(h, r)
	}

	req := &subscribeRequest{}
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(req); err != nil {
		return nil, err
	}
	return req, nil
}

// HandleRequest processes one inbound message: a subscription to a
// vehicle's display-state stream.
func (c *Client) HandleRequest() error {
	req, err := c.readRequest()
	if err != nil {
		c.conn.Close()
		return err
	}

	if req == nil {
		return nil
	}

	validate := validator.New()

	if err := validate.Struct(req); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		errResp := envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusBadRequest),
			"message": fmt.Sprintf("validation error: %v", vvString),
		}}
		return c.write(errResp)
	}

	vehicleID := req.VehicleID
	cancelFrames, err := c.hub.trackingService.Subscribe(vehicleID, func(state tracking.DisplayState) {
		_ = c.write(newFrameMessage(vehicleID, state))
	})
	if err != nil {
		errResp := envelope{"error": map[string]string{
			"code":    http.StatusText(http.StatusNotFound),
			"message": err.Error(),
		}}
		return c.write(errResp)
	}
	cancelCamera, err := c.hub.trackingService.SubscribeCamera(vehicleID, func(p geo.Coordinate) {
		_ = c.write(cameraMessage{Type: "camera", VehicleID: vehicleID, Lat: p.Lat, Lon: p.Lon})
	})
	if err != nil {
		cancelFrames()
		return err
	}

	c.mu.Lock()
	c.cancels = append(c.cancels, cancelFrames, cancelCamera)
	c.mu.Unlock()

	return c.write(envelope{"data": map[string]string{
		"status":     "subscribed",
		"vehicle_id": vehicleID,
	}})
}

func (c *Client) write(x interface{}) error {
	w := wsutil.NewWriter(c.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	c.io.Lock()
	defer c.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

func (c *Client) unsubscribeAll() {
	c.mu.Lock()
	cancels := c.cancels
	c.cancels = nil
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

type Hub struct {
	mu      sync.RWMutex
	seq     uint
	clients map[uint]*Client

	trackingService TrackingService
	pool            *concurrent.WorkerPool
}

func NewHub(pool *concurrent.WorkerPool, trackingService TrackingService) *Hub {
	return &Hub{
		pool:            pool,
		clients:         make(map[uint]*Client),
		trackingService: trackingService,
	}
}

func (h *Hub) Register(conn net.Conn) *Client {
	client := &Client{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	client.id = h.seq
	h.clients[client.id] = client
	h.seq++
	h.mu.Unlock()

	return client
}

func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	h.mu.Unlock()

	client.unsubscribeAll()
	client.conn.Close()
}

// Shutdown detaches every client, stopping all stream callbacks.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[uint]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.unsubscribeAll()
		c.conn.Close()
	}
}
