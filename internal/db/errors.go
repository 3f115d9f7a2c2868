package db

import "fmt"

// Op names a store operation for error reporting.
type Op string

const (
	OpHSet        Op = "hset"
	OpSearch      Op = "search"
	OpScan        Op = "scan"
	OpDel         Op = "del"
	OpCreateIndex Op = "create_index"
	OpPing        Op = "ping"
)

// Error wraps a store failure with the operation that produced it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
