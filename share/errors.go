package share

import (
	"context"
	"errors"
	"net/url"
)

// IsContextClosedError reports whether err is a cancellation or deadline
// error, unwrapping the url.Error that http clients produce.
func IsContextClosedError(err error) bool {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}

	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
