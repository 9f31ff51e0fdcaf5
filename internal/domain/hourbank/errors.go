package hourbank

import "errors"

var ErrRangeTooLarge = errors.New("hour bank range must not exceed 366 days")
