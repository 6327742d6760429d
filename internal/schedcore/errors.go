package schedcore

import "errors"

// ErrInvalidConfig is wrapped by New when a Config fails validation.
// Check with errors.Is, matching the teacher's redis.ErrChannelNotFound
// convention.
var ErrInvalidConfig = errors.New("schedcore: invalid config")
