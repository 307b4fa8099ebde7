package engine

import (
	"errors"
	"fmt"

	"github.com/bianoble/versync/internal/component"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotVersioned      = errors.New("not versioned")
	ErrVersionNotFound   = errors.New("version not found")
	ErrNoOp              = errors.New("nothing to do")
	ErrMergeBlocked      = errors.New("merge blocked")
	ErrDataInconsistency = errors.New("data inconsistency")
	ErrMissingPlacement  = errors.New("missing placement metadata")
)

// ComponentError is a failure tied to one component.
type ComponentError struct {
	ID      component.ID
	Version string
	Kind    error
	Msg     string
}

func (e *ComponentError) Error() string {
	return e.Msg
}

func (e *ComponentError) Unwrap() error {
	return e.Kind
}

// Fatal reports whether the error stops the whole batch.
func (e *ComponentError) Fatal() bool {
	switch e.Kind {
	case ErrNotVersioned, ErrVersionNotFound, ErrNoOp:
		return false
	}
	return true
}

func errNotVersioned(id component.ID) *ComponentError {
	return &ComponentError{
		ID:   id,
		Kind: ErrNotVersioned,
		Msg:  fmt.Sprintf("component %s doesn't have any version yet", id),
	}
}

func errVersionNotFound(id component.ID, version string) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: version,
		Kind:    ErrVersionNotFound,
		Msg:     fmt.Sprintf("component %s doesn't have version %s", id.WithoutVersion(), version),
	}
}

func errAlreadyAt(id component.ID, version string) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: version,
		Kind:    ErrNoOp,
		Msg:     fmt.Sprintf("component %s is already at version %s", id.WithoutVersion(), version),
	}
}

func errAlreadyLatest(id component.ID, version string) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: version,
		Kind:    ErrNoOp,
		Msg:     fmt.Sprintf("component %s is already at the latest version, which is %s", id.WithoutVersion(), version),
	}
}

func errNotModified(id component.ID) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: id.Version,
		Kind:    ErrNoOp,
		Msg:     fmt.Sprintf("component %s is not modified", id.WithoutVersion()),
	}
}

func errMergeBlocked(id component.ID) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: id.Version,
		Kind:    ErrMergeBlocked,
		Msg: fmt.Sprintf("automatic merge has failed for component %s.\n"+
			"use --manual to merge the changes by hand, or --theirs / --ours to pick one side", id.WithoutVersion()),
	}
}

func errDataInconsistency(id component.ID, format string, args ...any) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: id.Version,
		Kind:    ErrDataInconsistency,
		Msg:     fmt.Sprintf("component %s: ", id) + fmt.Sprintf(format, args...),
	}
}

func errMissingPlacement(id component.ID) *ComponentError {
	return &ComponentError{
		ID:      id,
		Version: id.Version,
		Kind:    ErrMissingPlacement,
		Msg:     fmt.Sprintf("component %s has no root directory in the workspace map", id),
	}
}
