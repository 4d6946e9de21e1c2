package store

import "fmt"

// ConnectivityError reports that the store could not be reached or opened.
// Callers can distinguish it from statement failures without string
// inspection.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("store: connectivity: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// PersistenceError reports that a schema or row operation failed after the
// connection was established. Op names the failed operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
