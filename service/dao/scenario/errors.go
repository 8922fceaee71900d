package scenario

import "errors"

// ErrInvalidScenario is returned for every malformed scenario; the wrapped
// message names the offending field path.
var ErrInvalidScenario = errors.New("scenario: invalid definition")
