package excuse

import "errors"

var (
	ErrExcuseNotFound        = errors.New("absence excuse not found")
	ErrExcuseAlreadyReviewed = errors.New("absence excuse already reviewed")
	ErrCannotReviewOwn       = errors.New("cannot review your own absence excuse")
)
