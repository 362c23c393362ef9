package hbdemo

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/challenai/hbdemo/thrift/hbase"
	"github.com/pkg/errors"
)

var (
	ErrNotOpen        = errors.New("storage client is not open")
	ErrClosed         = errors.New("storage client is closed")
	ErrAlreadyOpen    = errors.New("storage client is already open")
	ErrNoDialer       = errors.New("no dial function configured")
	ErrInvalidName    = errors.New("invalid name")
	ErrNoFamilies     = errors.New("at least one column family is required")
	ErrFamilyMismatch = errors.New("table does not declare the requested column families")
	ErrEmptyRowKey    = errors.New("row key must not be empty")
)

// ConnectivityError reports that the cluster could not be reached or the
// client was not in a usable state.
type ConnectivityError struct {
	Op     string
	Target string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s %s: connectivity: %v", e.Op, e.Target, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// SchemaError reports namespace or table state that conflicts with the
// requested operation.
type SchemaError struct {
	Op     string
	Target string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s %s: schema: %v", e.Op, e.Target, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DataOperationError reports a failed read, write or delete of a row.
type DataOperationError struct {
	Op     string
	Target string
	Err    error
}

func (e *DataOperationError) Error() string {
	return fmt.Sprintf("%s %s: data operation: %v", e.Op, e.Target, e.Err)
}

func (e *DataOperationError) Unwrap() error { return e.Err }

func IsConnectivity(err error) bool {
	var e *ConnectivityError
	return errors.As(err, &e)
}

func IsSchema(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

func IsDataOperation(err error) bool {
	var e *DataOperationError
	return errors.As(err, &e)
}

// server side exceptions that describe schema state rather than an outage.
var schemaExceptions = []string{
	"NamespaceExistException",
	"NamespaceNotFoundException",
	"TableExistsException",
	"TableNotFoundException",
	"TableNotDisabledException",
	"TableNotEnabledException",
	"InvalidFamilyOperationException",
	"IllegalArgumentException",
}

func isSchemaMessage(msg string) bool {
	for _, name := range schemaExceptions {
		if strings.Contains(msg, name) {
			return true
		}
	}
	return false
}

// isTransport reports failures below the HBase server: the socket, the
// HTTP round trip, the thrift framing or the caller's deadline.
func isTransport(err error) bool {
	var te thrift.TTransportException
	if errors.As(err, &te) {
		return true
	}
	var pe thrift.TProtocolException
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// adminError classifies a failed administrative call.
func adminError(op, target string, err error) error {
	var ioErr *hbase.TIOError
	if errors.As(err, &ioErr) && isSchemaMessage(ioErr.GetMessage()) {
		return &SchemaError{Op: op, Target: target, Err: errors.WithStack(err)}
	}
	var iaErr *hbase.TIllegalArgument
	if errors.As(err, &iaErr) {
		return &SchemaError{Op: op, Target: target, Err: errors.WithStack(err)}
	}
	return &ConnectivityError{Op: op, Target: target, Err: errors.WithStack(err)}
}

// dataError classifies a failed read, write or delete.
func dataError(op, target string, err error) error {
	if isTransport(err) {
		return &ConnectivityError{Op: op, Target: target, Err: errors.WithStack(err)}
	}
	return &DataOperationError{Op: op, Target: target, Err: errors.WithStack(err)}
}
