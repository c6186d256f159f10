package segment

import "errors"

// ErrUnsupportedValue is returned by Build for values outside the segment model.
var ErrUnsupportedValue = errors.New("unsupported value type")
