package httpx

import (
	"context"
	"errors"
	"net"
)

// IsTimeout reports whether err is a deadline expiry, either from the
// request context or from the transport.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// IsCanceled reports whether err comes from caller-side cancellation.
func IsCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}
