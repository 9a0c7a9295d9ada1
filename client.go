// Package jackhammer is a client for a memcached-style key-value service
// reached over UDP. It sends one fetch at a time and matches each reply to
// its request by correlation id.
package jackhammer

import (
	"context"
	gonet "net"
	"sync"

	c "Jackhammer/common"
	"Jackhammer/config"
	"Jackhammer/net"
	"Jackhammer/wire"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Exchanger sends one datagram and returns the one reply.
// *net.Transport is the production implementation.
type Exchanger interface {
	Exchange(ctx context.Context, req []byte, remote *gonet.UDPAddr) ([]byte, error)
	Close() error
}

// Result is the outcome of a fetch that got a well-formed reply.
type Result struct {
	Found bool
	Value []byte
	// Status is the service status when Found is false.
	Status c.Status
}

// Client performs fetches against one remote address. It is safe for
// concurrent use, but fetches are serialized.
type Client struct {
	cfg       config.Config
	remote    *gonet.UDPAddr
	transport Exchanger
	tracker   *Tracker
	lifecycle *fsm.FSM
	mu        sync.Mutex
}

// Dial resolves the configured address and opens a UDP transport.
func Dial(cfg config.Config) (*Client, error) {
	remote, err := net.ResolveAddr(cfg.Host, cfg.Port)
	if err != nil {
		return nil, err
	}
	tr, err := net.NewTransport(cfg.Timeout, cfg.MaxDatagram)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("%s: client for %s using local %s", c.CurFuncName(), remote, tr.LocalAddr())
	return NewClient(cfg, tr, remote), nil
}

// NewClient builds a client on an existing transport.
func NewClient(cfg config.Config, transport Exchanger, remote *gonet.UDPAddr) *Client {
	tracker := NewTracker(0)
	return &Client{
		cfg:       cfg,
		remote:    remote,
		transport: transport,
		tracker:   tracker,
		lifecycle: newLifecycle(tracker),
	}
}

// Fetch asks the service for key. A reply with a nonzero status is not an
// error; it yields a Result with Found unset. Any error wraps a
// common.ErrorKind and leaves the correlation id unconsumed.
func (cl *Client) Fetch(ctx context.Context, key []byte) (Result, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	id := cl.tracker.NextID()
	pkt, err := wire.EncodeRequest(c.FetchRequest{ID: id, Key: key})
	if err != nil {
		return Result{}, err
	}

	cl.transition(eventSend)
	raw, err := cl.transport.Exchange(ctx, pkt, cl.remote)
	if err != nil {
		cl.transition(eventAbandon)
		logrus.Debugf("%s: id=%d exchange failed: %v", c.CurFuncName(), id, err)
		return Result{}, err
	}

	cl.transition(eventReceive)
	resp, err := wire.DecodeResponse(raw, id)
	if err != nil {
		cl.transition(eventAbandon)
		logrus.Warnf("%s: id=%d bad reply: %v", c.CurFuncName(), id, err)
		return Result{}, err
	}
	cl.transition(eventComplete)

	if !resp.Found() {
		logrus.Debugf("%s: id=%d key=%q: %v", c.CurFuncName(), id, key, resp.Status)
		return Result{Status: resp.Status}, nil
	}
	return Result{Found: true, Value: resp.Value, Status: resp.Status}, nil
}

// Get is Fetch for string keys.
func (cl *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := cl.Fetch(ctx, []byte(key))
	if err != nil {
		return nil, false, err
	}
	return res.Value, res.Found, nil
}

// NextID is the correlation id the next fetch will use.
func (cl *Client) NextID() uint16 {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.tracker.NextID()
}

func (cl *Client) Close() error {
	logrus.Debugf("%s: closing client for %s:%d", c.CurFuncName(), cl.cfg.Host, cl.cfg.Port)
	return cl.transport.Close()
}

func (cl *Client) transition(event string) {
	if err := cl.lifecycle.Event(context.Background(), event); err != nil {
		logrus.Errorf("%s: fetch lifecycle %s from %s: %v", c.CurFuncName(), event, cl.lifecycle.Current(), err)
	}
}
