package feed

import "errors"

// ErrBrokerClosed is returned by Subscribe after the broker has shut down.
var ErrBrokerClosed = errors.New("feed broker closed")
