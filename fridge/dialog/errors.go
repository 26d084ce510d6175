package dialog

import "errors"

var (
	// ErrUnexpectedToken reports a well-formed button that the current state does not accept.
	ErrUnexpectedToken = errors.New("dialog: unexpected button")
	// ErrUnexpectedText reports free text received while no value is being typed.
	ErrUnexpectedText = errors.New("dialog: unexpected text")
	// ErrItemNotFound reports an item index that no longer addresses a stored item.
	ErrItemNotFound = errors.New("dialog: item not found")
	// ErrLocationFull reports a commit into a location at capacity.
	ErrLocationFull = errors.New("dialog: location is full")
)
