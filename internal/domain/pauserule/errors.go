package pauserule

import "errors"

var ErrDuplicateOrder = errors.New("pause rule order already used for this role")
