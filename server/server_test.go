package server

import (
	"context"
	"testing"

	c "Jackhammer/common"
	"Jackhammer/storage"
	"Jackhammer/wire"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	store := storage.NewStorage()
	store.Set("foo", []byte("bar"))
	s, err := New("127.0.0.1:0", store)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func request(t *testing.T, id uint16, key string) []byte {
	t.Helper()
	buf, err := wire.EncodeRequest(c.FetchRequest{ID: id, Key: []byte(key)})
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestHandleHit(t *testing.T) {
	s := newServer(t)
	resp, err := wire.DecodeResponse(s.Handle(request(t, 5, "foo"), nil), 5)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if !resp.Found() || string(resp.Value) != "bar" {
		t.Fatalf("got %+v", resp)
	}
}

func TestHandleMiss(t *testing.T) {
	s := newServer(t)
	resp, err := wire.DecodeResponse(s.Handle(request(t, 6, "nope"), nil), 6)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if resp.Found() || resp.Status != c.StatusKeyNotFound {
		t.Fatalf("got %+v", resp)
	}
}

func TestHandleValueTooBig(t *testing.T) {
	s := newServer(t)
	s.Storage.Set("big", make([]byte, wire.MaxDatagram))
	resp, err := wire.DecodeResponse(s.Handle(request(t, 1, "big"), nil), 1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != c.StatusTooBig {
		t.Fatalf("status = %v", resp.Status)
	}
}

func TestHandleMalformed(t *testing.T) {
	s := newServer(t)
	if got := s.Handle([]byte("get foo\r\n"), nil); got != nil {
		t.Fatalf("replied to garbage: % x", got)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	s := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}
