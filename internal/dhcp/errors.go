package dhcp

import "fmt"

// ErrorKind classifies a failed receive.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorPacketTooSmall
	ErrorPacketTooLarge
	ErrorSocket
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "none"
	case ErrorPacketTooSmall:
		return "too_small"
	case ErrorPacketTooLarge:
		return "too_large"
	case ErrorSocket:
		return "socket"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a failed receive. Err holds the transport error for ErrorSocket.
type Error struct {
	Kind   ErrorKind
	Length int
	Err    error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrPacketTooSmall = &Error{Kind: ErrorPacketTooSmall}
	ErrPacketTooLarge = &Error{Kind: ErrorPacketTooLarge}
	ErrSocket         = &Error{Kind: ErrorSocket}
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorPacketTooSmall:
		return fmt.Sprintf("packet too small: %d bytes", e.Length)
	case ErrorPacketTooLarge:
		return fmt.Sprintf("packet too large: %d bytes", e.Length)
	case ErrorSocket:
		if e.Err != nil {
			return fmt.Sprintf("socket error: %v", e.Err)
		}
		return "socket error"
	default:
		return "receive error: " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
