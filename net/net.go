// Package net moves single datagrams between the client and the service.
// It knows nothing about their content.
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	c "Jackhammer/common"

	"github.com/sirupsen/logrus"
)

const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 11211
)

// ResolveAddr resolves host and port, filling in loopback and 11211 when
// they are empty or zero.
func ResolveAddr(host string, port int) (*net.UDPAddr, error) {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s:%d: %v", c.SendFailed, host, port, err)
	}
	return addr, nil
}

// Transport owns one unconnected UDP socket and performs one
// request/reply exchange at a time.
type Transport struct {
	conn        *net.UDPConn
	timeout     time.Duration
	maxDatagram int
}

// NewTransport opens a socket on an ephemeral local port.
func NewTransport(timeout time.Duration, maxDatagram int) (*Transport, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn, timeout: timeout, maxDatagram: maxDatagram}, nil
}

// Exchange sends req to remote and returns the first datagram that comes
// back. The wait ends at the configured timeout or the context deadline,
// whichever is earlier.
func (t *Transport) Exchange(ctx context.Context, req []byte, remote *net.UDPAddr) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", c.Canceled, err)
	}
	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", c.SendFailed, err)
	}

	if _, err := t.conn.WriteToUDP(req, remote); err != nil {
		return nil, fmt.Errorf("%w: %v", c.SendFailed, err)
	}
	logrus.Debugf("%s: sent %d bytes to %s", c.CurFuncName(), len(req), remote)

	// one spare byte tells an oversized datagram from one that fits exactly
	buf := make([]byte, t.maxDatagram+1)
	n, src, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			t.reopen()
			return nil, fmt.Errorf("%w: no reply from %s", c.ReceiveTimeout, remote)
		}
		return nil, fmt.Errorf("%w: %v", c.ReceiveFailed, err)
	}
	if n > t.maxDatagram {
		return nil, fmt.Errorf("%w: reply from %s exceeds %d bytes", c.ReceiveTooLarge, src, t.maxDatagram)
	}
	logrus.Debugf("%s: received %d bytes from %s", c.CurFuncName(), n, src)
	return buf[:n], nil
}

// reopen swaps the socket for a fresh one so a late reply to an abandoned
// request cannot be read as the answer to the next one, which reuses its id.
func (t *Transport) reopen() {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		logrus.Warnf("%s: keeping old socket: %v", c.CurFuncName(), err)
		return
	}
	t.conn.Close()
	t.conn = conn
}

// LocalAddr is the address replies must be sent to.
func (t *Transport) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr)
}

func (t *Transport) Close() error {
	return t.conn.Close()
}

// Handler turns one request datagram into a reply. A nil reply is dropped.
type Handler func(req []byte, src *net.UDPAddr) []byte

// Listen opens a UDP socket on addr for Serve.
func Listen(addr string) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	return net.ListenUDP("udp", udpAddr)
}

// Serve answers datagrams on conn until ctx is done or conn is closed.
// Datagrams are handled one at a time, in arrival order.
func Serve(ctx context.Context, conn *net.UDPConn, maxDatagram int, h Handler) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	logrus.Infof("%s: serving on %s", c.CurFuncName(), conn.LocalAddr())
	buf := make([]byte, maxDatagram)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		resp := h(buf[:n], src)
		if resp == nil {
			continue
		}
		if _, err := conn.WriteToUDP(resp, src); err != nil {
			logrus.Warnf("%s: failed to reply to %s: %v", c.CurFuncName(), src, err)
		}
	}
}
