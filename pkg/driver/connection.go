package driver

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/microsoft/playwright-go-sub009/pkg/errors"
)

// message is the wire shape of every driver protocol message. Requests
// carry an id; replies echo it back with either result or error; events
// arrive without an id.
type message struct {
	ID     int             `json:"id,omitempty"`
	GUID   string          `json:"guid,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Error errors.ProtocolError `json:"error"`
}

// createParams is the payload of a __create__ lifecycle event.
type createParams struct {
	Type        string          `json:"type"`
	GUID        string          `json:"guid"`
	Initializer json.RawMessage `json:"initializer"`
}

// RemoteObject is one entry in the connection's object registry: a
// driver-side object addressed by guid. The driver announces objects with
// __create__ and retires whole subtrees with __dispose__.
type RemoteObject struct {
	GUID        string
	Type        string
	Parent      string
	Initializer json.RawMessage
}

// EventHandler receives protocol events for a guid. Handlers run on the
// connection's read goroutine and must not block.
type EventHandler func(guid, method string, params json.RawMessage)

// ObjectHandler is notified when the driver creates or disposes a remote
// object. Called on the read goroutine.
type ObjectHandler func(obj *RemoteObject, created bool)

// Connection multiplexes calls and events over one driver transport. It
// assigns request ids, correlates replies, maintains the remote object
// registry, and fans events out to the registered handler.
//
// All exported methods are safe for concurrent use.
type Connection struct {
	transport *Transport
	logger    *log.Logger
	sessionID string

	mu       sync.Mutex
	nextID   int
	pending  map[int]chan *message
	objects  map[string]*RemoteObject
	onEvent  EventHandler
	onObject ObjectHandler
	subs     map[string]map[int]func(json.RawMessage)
	subID    int
	closed   bool
	err      error

	done chan struct{}
}

// NewConnection creates a Connection over the transport and starts its
// read loop. The connection owns the transport from this point on.
func NewConnection(transport *Transport, logger *log.Logger) *Connection {
	c := &Connection{
		transport: transport,
		logger:    logger,
		sessionID: uuid.NewString(),
		pending:   make(map[int]chan *message),
		objects:   make(map[string]*RemoteObject),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// SessionID identifies this connection in logs.
func (c *Connection) SessionID() string { return c.sessionID }

// OnEvent registers the handler for protocol events. Must be called before
// the driver starts emitting events of interest.
func (c *Connection) OnEvent(h EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvent = h
}

// OnObject registers the handler for object lifecycle notifications.
func (c *Connection) OnObject(h ObjectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onObject = h
}

// Subscribe registers a handler for events from one guid and method,
// alongside the catch-all OnEvent handler. The returned function removes
// the subscription.
func (c *Connection) Subscribe(guid, method string, fn func(params json.RawMessage)) func() {
	key := guid + "\x00" + method
	c.mu.Lock()
	c.subID++
	id := c.subID
	if c.subs == nil {
		c.subs = make(map[string]map[int]func(json.RawMessage))
	}
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func(json.RawMessage))
	}
	c.subs[key][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[key], id)
	}
}

// Object looks up a remote object by guid.
func (c *Connection) Object(guid string) (*RemoteObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj, ok := c.objects[guid]
	return obj, ok
}

// Call sends a method call to the object addressed by guid and waits for
// the reply. A driver-reported failure is returned as *errors.ProtocolError.
func (c *Connection) Call(ctx context.Context, guid, method string, params any) (json.RawMessage, error) {
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal params for %s.%s", guid, method)
		}
		raw = data
	}

	c.mu.Lock()
	if c.closed {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	c.nextID++
	id := c.nextID
	ch := make(chan *message, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	msg, err := json.Marshal(message{ID: id, GUID: guid, Method: method, Params: raw})
	if err != nil {
		c.dropPending(id)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal call %s.%s", guid, method)
	}

	c.logger.Debug("call", "session", c.sessionID, "id", id, "guid", guid, "method", method)
	if err := c.transport.Send(msg); err != nil {
		c.dropPending(id)
		return nil, err
	}

	select {
	case <-ctx.Done():
		c.dropPending(id)
		return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "call %s.%s", guid, method)
	case reply := <-ch:
		if reply == nil {
			c.mu.Lock()
			err := c.err
			c.mu.Unlock()
			return nil, err
		}
		if reply.Error != nil {
			perr := reply.Error.Error
			return nil, &perr
		}
		return reply.Result, nil
	}
}

// Close tears down the connection. In-flight calls fail with a target
// closed error.
func (c *Connection) Close() error {
	c.fail(errors.New(errors.ErrCodeTargetClosed, "connection closed"))
	return nil
}

func (c *Connection) dropPending(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// fail marks the connection dead and wakes every waiter.
func (c *Connection) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.err = err
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
	close(c.done)
}

// Done is closed when the connection shuts down; Err reports why.
func (c *Connection) Done() <-chan struct{} { return c.done }

// Err returns the terminal error after Done is closed.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Connection) readLoop() {
	for {
		data, err := c.transport.Read()
		if err != nil {
			if err == io.EOF {
				c.fail(errors.New(errors.ErrCodeTargetClosed, "driver closed the connection"))
			} else {
				c.fail(errors.Wrap(errors.ErrCodeDriverCrash, err, "driver stream broke"))
			}
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.fail(errors.Wrap(errors.ErrCodeProtocol, err, "malformed message from driver"))
			return
		}
		c.dispatch(&msg)
	}
}

func (c *Connection) dispatch(msg *message) {
	if msg.ID != 0 {
		c.mu.Lock()
		ch, ok := c.pending[msg.ID]
		delete(c.pending, msg.ID)
		c.mu.Unlock()
		if !ok {
			c.logger.Warn("reply for unknown call", "session", c.sessionID, "id", msg.ID)
			return
		}
		ch <- msg
		return
	}

	switch msg.Method {
	case "__create__":
		var params createParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			c.logger.Warn("malformed __create__", "session", c.sessionID, "err", err)
			return
		}
		obj := &RemoteObject{
			GUID:        params.GUID,
			Type:        params.Type,
			Parent:      msg.GUID,
			Initializer: params.Initializer,
		}
		c.mu.Lock()
		c.objects[obj.GUID] = obj
		handler := c.onObject
		c.mu.Unlock()
		c.logger.Debug("object created", "session", c.sessionID, "guid", obj.GUID, "type", obj.Type)
		if handler != nil {
			handler(obj, true)
		}

	case "__dispose__":
		c.disposeSubtree(msg.GUID)

	default:
		c.mu.Lock()
		handler := c.onEvent
		var subs []func(json.RawMessage)
		for _, fn := range c.subs[msg.GUID+"\x00"+msg.Method] {
			subs = append(subs, fn)
		}
		c.mu.Unlock()
		for _, fn := range subs {
			fn(msg.Params)
		}
		if handler != nil {
			handler(msg.GUID, msg.Method, msg.Params)
		}
	}
}

// disposeSubtree removes the object and everything parented under it,
// matching the driver's ownership model.
func (c *Connection) disposeSubtree(guid string) {
	c.mu.Lock()
	var removed []*RemoteObject
	var walk func(string)
	walk = func(g string) {
		obj, ok := c.objects[g]
		if !ok {
			return
		}
		delete(c.objects, g)
		removed = append(removed, obj)
		var children []string
		for _, child := range c.objects {
			if child.Parent == g {
				children = append(children, child.GUID)
			}
		}
		for _, childGUID := range children {
			walk(childGUID)
		}
	}
	walk(guid)
	handler := c.onObject
	c.mu.Unlock()

	c.logger.Debug("object disposed", "session", c.sessionID, "guid", guid, "count", len(removed))
	if handler != nil {
		for _, obj := range removed {
			handler(obj, false)
		}
	}
}
