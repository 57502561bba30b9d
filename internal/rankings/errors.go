package rankings

import "errors"

var ErrUnknownMetric = errors.New("unknown metric")
