package common

// FetchRequest asks the service for the value stored under Key.
// ID is echoed back in the reply and ties the two together.
type FetchRequest struct {
	ID  uint16
	Key []byte
}
