package common

import "fmt"

// Magic marks a packet as request or response.
type Magic uint8

const (
	MagicRequest  Magic = 0x80
	MagicResponse Magic = 0x81
)

// Opcode is the command carried by a packet. Only OpGet is ever sent.
type Opcode uint8

const OpGet Opcode = 0x00

// Status is the outcome code reported by the service.
type Status uint16

const (
	StatusSuccess        Status = 0x00
	StatusKeyNotFound    Status = 0x01
	StatusKeyExists      Status = 0x02
	StatusTooBig         Status = 0x03
	StatusInvalid        Status = 0x04
	StatusNotStored      Status = 0x05
	StatusDeltaBadValue  Status = 0x06
	StatusAuthError      Status = 0x20
	StatusAuthContinue   Status = 0x21
	StatusUnknownCommand Status = 0x81
	StatusOutOfMemory    Status = 0x82
)

var Status2Str = map[Status]string{
	StatusSuccess:        "success",
	StatusKeyNotFound:    "not found",
	StatusKeyExists:      "key exists",
	StatusTooBig:         "value too large",
	StatusInvalid:        "invalid arguments",
	StatusNotStored:      "not stored",
	StatusDeltaBadValue:  "non-numeric value",
	StatusAuthError:      "auth error",
	StatusAuthContinue:   "auth continue",
	StatusUnknownCommand: "unknown command",
	StatusOutOfMemory:    "out of memory",
}

func (s Status) String() string {
	if str, ok := Status2Str[s]; ok {
		return str
	}
	return fmt.Sprintf("status 0x%04x", uint16(s))
}
