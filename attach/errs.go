package attach

import (
	"errors"

	"github.com/signadot/attachtree/attach/kpath"
)

var (
	// ErrRemoved is returned when an operation requires a node that is
	// still part of the tree.
	ErrRemoved = errors.New("attachment configuration was removed")

	// ErrBadPath is returned for paths that do not parse.
	ErrBadPath = kpath.ErrSyntax
)
