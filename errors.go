package vtree

import "errors"

var (
	ErrNotFound      = errors.New("vtree: not found")
	ErrWrongType     = errors.New("vtree: wrong entry type")
	ErrDuplicateName = errors.New("vtree: duplicate name")
	ErrNoParent      = errors.New("vtree: no parent")
	ErrInvalidName   = errors.New("vtree: invalid name")
	ErrCycle         = errors.New("vtree: folder cannot contain itself")
)
