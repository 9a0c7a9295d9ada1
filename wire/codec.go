// Package wire encodes fetch requests and decodes replies in the
// memcached-over-UDP binary layout. All integers are big-endian.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	c "Jackhammer/common"
)

const (
	// RequestHeaderSize is the fixed prefix in front of the key.
	RequestHeaderSize = 32
	// ResponseHeaderSize is the shortest reply that can be decoded.
	ResponseHeaderSize = 36
	// MaxDatagram is the default receive buffer size.
	MaxDatagram = 4096

	idOffset        = 0
	frameTotal      = 4
	magicOffset     = 8
	opcodeOffset    = 9
	keyLenOffset    = 10
	extrasLenOffset = 12
	statusOffset    = 14
	bodyLenOffset   = 16
	// the request carries the key length in the low half of the body length
	keyLenRepeatOffset = 18
	valueOffset        = 8 + 28

	getExtrasLen = 4
)

// Response is a decoded reply. It is never modified after DecodeResponse
// returns it.
type Response struct {
	ID     uint16
	Magic  c.Magic
	Opcode c.Opcode
	Status c.Status
	// Value is set only when Status is c.StatusSuccess.
	Value []byte
}

// Found reports whether the service returned a value.
func (r *Response) Found() bool {
	return r.Status == c.StatusSuccess
}

// EncodeRequest lays out a fetch request: the 8-byte frame header,
// the 24-byte request header with the key length written twice, then the key.
func EncodeRequest(req c.FetchRequest) ([]byte, error) {
	if len(req.Key) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: key is %d bytes, limit is %d", c.InvalidKey, len(req.Key), math.MaxUint16)
	}
	keyLen := uint16(len(req.Key))

	buf := make([]byte, RequestHeaderSize+len(req.Key))
	binary.BigEndian.PutUint16(buf[idOffset:], req.ID)
	binary.BigEndian.PutUint16(buf[frameTotal:], 1)
	buf[magicOffset] = byte(c.MagicRequest)
	buf[opcodeOffset] = byte(c.OpGet)
	binary.BigEndian.PutUint16(buf[keyLenOffset:], keyLen)
	binary.BigEndian.PutUint16(buf[keyLenRepeatOffset:], keyLen)
	copy(buf[RequestHeaderSize:], req.Key)
	return buf, nil
}

// DecodeResponse validates buf against the expected correlation id and
// extracts the status and value. The first failed check wins.
// Trailing bytes of a reply with a nonzero status are discarded.
func DecodeResponse(buf []byte, expectedID uint16) (*Response, error) {
	if len(buf) < ResponseHeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", c.Truncated, len(buf), ResponseHeaderSize)
	}
	resp := &Response{
		ID:     binary.BigEndian.Uint16(buf[idOffset:]),
		Magic:  c.Magic(buf[magicOffset]),
		Opcode: c.Opcode(buf[opcodeOffset]),
		Status: c.Status(binary.BigEndian.Uint16(buf[statusOffset:])),
	}
	if resp.ID != expectedID {
		return nil, fmt.Errorf("%w: got id %d, want %d", c.CorrelationMismatch, resp.ID, expectedID)
	}
	if resp.Magic != c.MagicResponse {
		return nil, fmt.Errorf("%w: 0x%02x", c.BadMagic, uint8(resp.Magic))
	}
	if resp.Opcode != c.OpGet {
		return nil, fmt.Errorf("%w: 0x%02x", c.BadOpcode, uint8(resp.Opcode))
	}
	if resp.Status != c.StatusSuccess {
		return resp, nil
	}
	resp.Value = append([]byte{}, buf[valueOffset:]...)
	return resp, nil
}

// DecodeRequest is the service side of EncodeRequest.
func DecodeRequest(buf []byte) (c.FetchRequest, error) {
	if len(buf) < RequestHeaderSize {
		return c.FetchRequest{}, fmt.Errorf("%w: got %d bytes, need %d", c.Truncated, len(buf), RequestHeaderSize)
	}
	if m := c.Magic(buf[magicOffset]); m != c.MagicRequest {
		return c.FetchRequest{}, fmt.Errorf("%w: 0x%02x", c.BadMagic, uint8(m))
	}
	if op := c.Opcode(buf[opcodeOffset]); op != c.OpGet {
		return c.FetchRequest{}, fmt.Errorf("%w: 0x%02x", c.BadOpcode, uint8(op))
	}
	keyLen := int(binary.BigEndian.Uint16(buf[keyLenOffset:]))
	if RequestHeaderSize+keyLen > len(buf) {
		return c.FetchRequest{}, fmt.Errorf("%w: key length %d exceeds packet", c.Truncated, keyLen)
	}
	return c.FetchRequest{
		ID:  binary.BigEndian.Uint16(buf[idOffset:]),
		Key: append([]byte{}, buf[RequestHeaderSize:RequestHeaderSize+keyLen]...),
	}, nil
}

// EncodeResponse builds a reply for request id. A successful reply carries
// four zero flag bytes before the value; a failed one carries the status text.
func EncodeResponse(id uint16, status c.Status, value []byte) []byte {
	var extras int
	body := value
	if status == c.StatusSuccess {
		extras = getExtrasLen
	} else {
		body = []byte(status.String())
	}

	buf := make([]byte, RequestHeaderSize+extras+len(body))
	binary.BigEndian.PutUint16(buf[idOffset:], id)
	binary.BigEndian.PutUint16(buf[frameTotal:], 1)
	buf[magicOffset] = byte(c.MagicResponse)
	buf[opcodeOffset] = byte(c.OpGet)
	buf[extrasLenOffset] = byte(extras)
	binary.BigEndian.PutUint16(buf[statusOffset:], uint16(status))
	binary.BigEndian.PutUint32(buf[bodyLenOffset:], uint32(extras+len(body)))
	copy(buf[RequestHeaderSize+extras:], body)
	return buf
}
