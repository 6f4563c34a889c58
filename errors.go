package scapolite

import (
	"errors"
	"fmt"
)

// ErrParseMetadata indicates a document whose metadata segment is not valid yaml
type ErrParseMetadata struct {
	Path  string
	Err   error
	Count int
}

func (e ErrParseMetadata) Error() string {
	return fmt.Sprintf("%d - File: %s; Err: %s", e.Count, e.Path, e.Err)
}

// ErrBulkParse is a bulk handler for dealing with broken scapolite documents
// Some documents are bound to fail, no reason to exit the entire batch
// Individual errors are collected and returned at the end
// Caller decides if they should be only reported or warrant a full exit
type ErrBulkParse struct {
	Errs []ErrParseMetadata
}

func (e ErrBulkParse) Error() string {
	return fmt.Sprintf("got %d broken scapolite documents", len(e.Errs))
}

// ErrEmptyPlaybook indicates that a conversion run produced no plays at all
// Writing an empty playbook is always a caller mistake
var ErrEmptyPlaybook = errors.New("no valid plays generated")
