package store

import "fmt"

// DataStoreError wraps any failure reading or writing the database.
type DataStoreError struct {
	Op  string
	Err error
}

func (e *DataStoreError) Error() string {
	return fmt.Sprintf("data store %s: %v", e.Op, e.Err)
}

func (e *DataStoreError) Unwrap() error { return e.Err }
