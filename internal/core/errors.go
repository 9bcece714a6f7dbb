package core

import "errors"

var (
	ErrUnknownTool        = errors.New("unknown tool")
	ErrInvalidArguments   = errors.New("invalid arguments")
	ErrNotifyFailed       = errors.New("notification failed")
	ErrToolRoundsExceeded = errors.New("tool rounds exceeded")
)
