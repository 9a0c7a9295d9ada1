// Package server answers fetch requests from an in-memory store.
// It speaks the same wire format as the client and exists for local
// testing and load runs.
package server

import (
	"context"
	gonet "net"

	c "Jackhammer/common"
	"Jackhammer/net"
	"Jackhammer/storage"
	"Jackhammer/wire"

	"github.com/sirupsen/logrus"
)

type Server struct {
	Storage     *storage.Storage
	conn        *gonet.UDPConn
	maxDatagram int
}

// New binds addr. The returned server does nothing until Serve is called.
func New(addr string, store *storage.Storage) (*Server, error) {
	conn, err := net.Listen(addr)
	if err != nil {
		return nil, err
	}
	return &Server{Storage: store, conn: conn, maxDatagram: wire.MaxDatagram}, nil
}

func (s *Server) Addr() *gonet.UDPAddr {
	return s.conn.LocalAddr().(*gonet.UDPAddr)
}

// Serve blocks until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	return net.Serve(ctx, s.conn, s.maxDatagram, s.Handle)
}

func (s *Server) Close() error {
	return s.conn.Close()
}

// Handle decodes one request and builds its reply. Malformed requests get
// no reply.
func (s *Server) Handle(pkt []byte, src *gonet.UDPAddr) []byte {
	req, err := wire.DecodeRequest(pkt)
	if err != nil {
		logrus.Warnf("%s: dropping datagram from %s: %v", c.CurFuncName(), src, err)
		return nil
	}
	val, ok := s.Storage.Get(string(req.Key))
	if !ok {
		logrus.Debugf("%s: id=%d key=%q miss", c.CurFuncName(), req.ID, req.Key)
		return wire.EncodeResponse(req.ID, c.StatusKeyNotFound, nil)
	}
	logrus.Debugf("%s: id=%d key=%q hit, %d bytes", c.CurFuncName(), req.ID, req.Key, len(val))
	resp := wire.EncodeResponse(req.ID, c.StatusSuccess, val)
	if len(resp) > s.maxDatagram {
		return wire.EncodeResponse(req.ID, c.StatusTooBig, nil)
	}
	return resp
}
