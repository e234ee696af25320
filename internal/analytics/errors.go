package analytics

import "errors"

var (
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownRoomType = errors.New("unknown room type")
)
