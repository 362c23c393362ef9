// Package hbase is the client side of the HBase thrift2 gateway
// (THBaseService). Only the calls and structures needed for namespace and
// table administration and single row access are bound; field ids follow
// hbase.thrift of HBase 2.x so the binding talks to a stock gateway.
package hbase

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

type TDeleteType int64

const (
	TDeleteType_DELETE_COLUMN         TDeleteType = 0
	TDeleteType_DELETE_COLUMNS        TDeleteType = 1
	TDeleteType_DELETE_FAMILY         TDeleteType = 2
	TDeleteType_DELETE_FAMILY_VERSION TDeleteType = 3
)

func (p TDeleteType) String() string {
	switch p {
	case TDeleteType_DELETE_COLUMN:
		return "DELETE_COLUMN"
	case TDeleteType_DELETE_COLUMNS:
		return "DELETE_COLUMNS"
	case TDeleteType_DELETE_FAMILY:
		return "DELETE_FAMILY"
	case TDeleteType_DELETE_FAMILY_VERSION:
		return "DELETE_FAMILY_VERSION"
	}
	return "<UNSET>"
}

// TColumn addresses a family, or a single column when Qualifier is set.
type TColumn struct {
	Family    []byte
	Qualifier []byte
	Timestamp *int64
}

func (p *TColumn) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TColumn", func() error {
		if err := writeBinaryField(ctx, oprot, "family", 1, p.Family); err != nil {
			return err
		}
		if p.Qualifier != nil {
			if err := writeBinaryField(ctx, oprot, "qualifier", 2, p.Qualifier); err != nil {
				return err
			}
		}
		if p.Timestamp != nil {
			return writeI64Field(ctx, oprot, "timestamp", 3, *p.Timestamp)
		}
		return nil
	})
}

func (p *TColumn) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	var hasFamily bool
	if rerr := readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Family, err = iprot.ReadBinary(ctx)
			hasFamily = true
		case id == 2 && typ == thrift.STRING:
			p.Qualifier, err = iprot.ReadBinary(ctx)
		case id == 3 && typ == thrift.I64:
			var v int64
			v, err = iprot.ReadI64(ctx)
			p.Timestamp = &v
		default:
			return false, nil
		}
		return true, err
	}); rerr != nil {
		return rerr
	}
	if !hasFamily {
		return missingField("TColumn", "family")
	}
	return nil
}

// TColumnValue is a single cell: family, qualifier and value.
type TColumnValue struct {
	Family    []byte
	Qualifier []byte
	Value     []byte
	Timestamp *int64
}

func (p *TColumnValue) GetValue() []byte {
	return p.Value
}

func (p *TColumnValue) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TColumnValue", func() error {
		if err := writeBinaryField(ctx, oprot, "family", 1, p.Family); err != nil {
			return err
		}
		if err := writeBinaryField(ctx, oprot, "qualifier", 2, p.Qualifier); err != nil {
			return err
		}
		if err := writeBinaryField(ctx, oprot, "value", 3, p.Value); err != nil {
			return err
		}
		if p.Timestamp != nil {
			return writeI64Field(ctx, oprot, "timestamp", 4, *p.Timestamp)
		}
		return nil
	})
}

func (p *TColumnValue) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	var set int
	if rerr := readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Family, err = iprot.ReadBinary(ctx)
			set |= 1
		case id == 2 && typ == thrift.STRING:
			p.Qualifier, err = iprot.ReadBinary(ctx)
			set |= 2
		case id == 3 && typ == thrift.STRING:
			p.Value, err = iprot.ReadBinary(ctx)
			set |= 4
		case id == 4 && typ == thrift.I64:
			var v int64
			v, err = iprot.ReadI64(ctx)
			p.Timestamp = &v
		default:
			return false, nil
		}
		return true, err
	}); rerr != nil {
		return rerr
	}
	if set != 7 {
		return missingField("TColumnValue", "family/qualifier/value")
	}
	return nil
}

// TResult_ holds the cells of one row. Row is nil when the row does not exist.
type TResult_ struct {
	Row          []byte
	ColumnValues []*TColumnValue
}

func (p *TResult_) GetColumnValues() []*TColumnValue {
	if p == nil {
		return nil
	}
	return p.ColumnValues
}

func (p *TResult_) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TResult", func() error {
		if p.Row != nil {
			if err := writeBinaryField(ctx, oprot, "row", 1, p.Row); err != nil {
				return err
			}
		}
		return writeField(ctx, oprot, "columnValues", thrift.LIST, 2, func() error {
			return writeList(ctx, oprot, thrift.STRUCT, len(p.ColumnValues), func(i int) error {
				return p.ColumnValues[i].Write(ctx, oprot)
			})
		})
	})
}

func (p *TResult_) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	var hasValues bool
	if rerr := readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Row, err = iprot.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			hasValues = true
			p.ColumnValues = nil
			err = readList(ctx, iprot, func() error {
				cv := &TColumnValue{}
				if err := cv.Read(ctx, iprot); err != nil {
					return err
				}
				p.ColumnValues = append(p.ColumnValues, cv)
				return nil
			})
		default:
			return false, nil
		}
		return true, err
	}); rerr != nil {
		return rerr
	}
	if !hasValues {
		return missingField("TResult", "columnValues")
	}
	return nil
}

// TGet reads a single row, optionally restricted to Columns.
type TGet struct {
	Row         []byte
	Columns     []*TColumn
	Timestamp   *int64
	MaxVersions *int32
}

func (p *TGet) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TGet", func() error {
		if err := writeBinaryField(ctx, oprot, "row", 1, p.Row); err != nil {
			return err
		}
		if p.Columns != nil {
			if err := writeField(ctx, oprot, "columns", thrift.LIST, 2, func() error {
				return writeList(ctx, oprot, thrift.STRUCT, len(p.Columns), func(i int) error {
					return p.Columns[i].Write(ctx, oprot)
				})
			}); err != nil {
				return err
			}
		}
		if p.Timestamp != nil {
			if err := writeI64Field(ctx, oprot, "timestamp", 3, *p.Timestamp); err != nil {
				return err
			}
		}
		if p.MaxVersions != nil {
			return writeI32Field(ctx, oprot, "maxVersions", 5, *p.MaxVersions)
		}
		return nil
	})
}

func (p *TGet) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Row, err = iprot.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			err = readList(ctx, iprot, func() error {
				c := &TColumn{}
				if err := c.Read(ctx, iprot); err != nil {
					return err
				}
				p.Columns = append(p.Columns, c)
				return nil
			})
		case id == 3 && typ == thrift.I64:
			var v int64
			v, err = iprot.ReadI64(ctx)
			p.Timestamp = &v
		case id == 5 && typ == thrift.I32:
			var v int32
			v, err = iprot.ReadI32(ctx)
			p.MaxVersions = &v
		default:
			return false, nil
		}
		return true, err
	})
}

// TPut writes ColumnValues into Row.
type TPut struct {
	Row          []byte
	ColumnValues []*TColumnValue
	Timestamp    *int64
}

func (p *TPut) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TPut", func() error {
		if err := writeBinaryField(ctx, oprot, "row", 1, p.Row); err != nil {
			return err
		}
		if err := writeField(ctx, oprot, "columnValues", thrift.LIST, 2, func() error {
			return writeList(ctx, oprot, thrift.STRUCT, len(p.ColumnValues), func(i int) error {
				return p.ColumnValues[i].Write(ctx, oprot)
			})
		}); err != nil {
			return err
		}
		if p.Timestamp != nil {
			return writeI64Field(ctx, oprot, "timestamp", 3, *p.Timestamp)
		}
		return nil
	})
}

func (p *TPut) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Row, err = iprot.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			err = readList(ctx, iprot, func() error {
				cv := &TColumnValue{}
				if err := cv.Read(ctx, iprot); err != nil {
					return err
				}
				p.ColumnValues = append(p.ColumnValues, cv)
				return nil
			})
		case id == 3 && typ == thrift.I64:
			var v int64
			v, err = iprot.ReadI64(ctx)
			p.Timestamp = &v
		default:
			return false, nil
		}
		return true, err
	})
}

// TDelete removes Columns from Row, or the whole row when Columns is empty.
type TDelete struct {
	Row        []byte
	Columns    []*TColumn
	Timestamp  *int64
	DeleteType *TDeleteType
}

func (p *TDelete) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TDelete", func() error {
		if err := writeBinaryField(ctx, oprot, "row", 1, p.Row); err != nil {
			return err
		}
		if p.Columns != nil {
			if err := writeField(ctx, oprot, "columns", thrift.LIST, 2, func() error {
				return writeList(ctx, oprot, thrift.STRUCT, len(p.Columns), func(i int) error {
					return p.Columns[i].Write(ctx, oprot)
				})
			}); err != nil {
				return err
			}
		}
		if p.Timestamp != nil {
			if err := writeI64Field(ctx, oprot, "timestamp", 3, *p.Timestamp); err != nil {
				return err
			}
		}
		if p.DeleteType != nil {
			return writeI32Field(ctx, oprot, "deleteType", 4, int32(*p.DeleteType))
		}
		return nil
	})
}

func (p *TDelete) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Row, err = iprot.ReadBinary(ctx)
		case id == 2 && typ == thrift.LIST:
			err = readList(ctx, iprot, func() error {
				c := &TColumn{}
				if err := c.Read(ctx, iprot); err != nil {
					return err
				}
				p.Columns = append(p.Columns, c)
				return nil
			})
		case id == 3 && typ == thrift.I64:
			var v int64
			v, err = iprot.ReadI64(ctx)
			p.Timestamp = &v
		case id == 4 && typ == thrift.I32:
			var v int32
			v, err = iprot.ReadI32(ctx)
			dt := TDeleteType(v)
			p.DeleteType = &dt
		default:
			return false, nil
		}
		return true, err
	})
}

// TTableName is a namespace-qualified table name. A nil Ns means "default".
type TTableName struct {
	Ns        []byte
	Qualifier []byte
}

func (p *TTableName) String() string {
	if p == nil {
		return "<nil>"
	}
	if len(p.Ns) == 0 {
		return string(p.Qualifier)
	}
	return fmt.Sprintf("%s:%s", p.Ns, p.Qualifier)
}

func (p *TTableName) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TTableName", func() error {
		if p.Ns != nil {
			if err := writeBinaryField(ctx, oprot, "ns", 1, p.Ns); err != nil {
				return err
			}
		}
		return writeBinaryField(ctx, oprot, "qualifier", 2, p.Qualifier)
	})
}

func (p *TTableName) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	var hasQualifier bool
	if rerr := readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Ns, err = iprot.ReadBinary(ctx)
		case id == 2 && typ == thrift.STRING:
			p.Qualifier, err = iprot.ReadBinary(ctx)
			hasQualifier = true
		default:
			return false, nil
		}
		return true, err
	}); rerr != nil {
		return rerr
	}
	if !hasQualifier {
		return missingField("TTableName", "qualifier")
	}
	return nil
}

// TColumnFamilyDescriptor declares one column family of a table.
type TColumnFamilyDescriptor struct {
	Name        []byte
	MaxVersions *int32
	TimeToLive  *int32
}

func (p *TColumnFamilyDescriptor) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TColumnFamilyDescriptor", func() error {
		if err := writeBinaryField(ctx, oprot, "name", 1, p.Name); err != nil {
			return err
		}
		if p.MaxVersions != nil {
			if err := writeI32Field(ctx, oprot, "maxVersions", 10, *p.MaxVersions); err != nil {
				return err
			}
		}
		if p.TimeToLive != nil {
			return writeI32Field(ctx, oprot, "timeToLive", 13, *p.TimeToLive)
		}
		return nil
	})
}

func (p *TColumnFamilyDescriptor) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Name, err = iprot.ReadBinary(ctx)
		case id == 10 && typ == thrift.I32:
			var v int32
			v, err = iprot.ReadI32(ctx)
			p.MaxVersions = &v
		case id == 13 && typ == thrift.I32:
			var v int32
			v, err = iprot.ReadI32(ctx)
			p.TimeToLive = &v
		default:
			return false, nil
		}
		return true, err
	})
}

// TTableDescriptor is a table name plus its column families.
type TTableDescriptor struct {
	TableName *TTableName
	Columns   []*TColumnFamilyDescriptor
}

func (p *TTableDescriptor) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if p.TableName == nil {
		return missingField("TTableDescriptor", "tableName")
	}
	return writeStruct(ctx, oprot, "TTableDescriptor", func() error {
		if err := writeStructField(ctx, oprot, "tableName", 1, p.TableName); err != nil {
			return err
		}
		if p.Columns != nil {
			return writeField(ctx, oprot, "columns", thrift.LIST, 2, func() error {
				return writeList(ctx, oprot, thrift.STRUCT, len(p.Columns), func(i int) error {
					return p.Columns[i].Write(ctx, oprot)
				})
			})
		}
		return nil
	})
}

func (p *TTableDescriptor) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	if rerr := readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRUCT:
			p.TableName = &TTableName{}
			err = p.TableName.Read(ctx, iprot)
		case id == 2 && typ == thrift.LIST:
			err = readList(ctx, iprot, func() error {
				c := &TColumnFamilyDescriptor{}
				if err := c.Read(ctx, iprot); err != nil {
					return err
				}
				p.Columns = append(p.Columns, c)
				return nil
			})
		default:
			return false, nil
		}
		return true, err
	}); rerr != nil {
		return rerr
	}
	if p.TableName == nil {
		return missingField("TTableDescriptor", "tableName")
	}
	return nil
}

// TNamespaceDescriptor names a namespace and carries its configuration.
type TNamespaceDescriptor struct {
	Name          string
	Configuration map[string]string
}

func (p *TNamespaceDescriptor) GetName() string {
	if p == nil {
		return ""
	}
	return p.Name
}

func (p *TNamespaceDescriptor) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TNamespaceDescriptor", func() error {
		if err := writeStringField(ctx, oprot, "name", 1, p.Name); err != nil {
			return err
		}
		if p.Configuration == nil {
			return nil
		}
		return writeField(ctx, oprot, "configuration", thrift.MAP, 2, func() error {
			if err := oprot.WriteMapBegin(ctx, thrift.STRING, thrift.STRING, len(p.Configuration)); err != nil {
				return thrift.PrependError("error writing map begin: ", err)
			}
			for k, v := range p.Configuration {
				if err := oprot.WriteString(ctx, k); err != nil {
					return err
				}
				if err := oprot.WriteString(ctx, v); err != nil {
					return err
				}
			}
			return oprot.WriteMapEnd(ctx)
		})
	})
}

func (p *TNamespaceDescriptor) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			p.Name, err = iprot.ReadString(ctx)
		case id == 2 && typ == thrift.MAP:
			err = p.readConfiguration(ctx, iprot)
		default:
			return false, nil
		}
		return true, err
	})
}

func (p *TNamespaceDescriptor) readConfiguration(ctx context.Context, iprot thrift.TProtocol) error {
	_, _, size, err := iprot.ReadMapBegin(ctx)
	if err != nil {
		return thrift.PrependError("error reading map begin: ", err)
	}
	p.Configuration = make(map[string]string, size)
	for i := 0; i < size; i++ {
		k, err := iprot.ReadString(ctx)
		if err != nil {
			return err
		}
		v, err := iprot.ReadString(ctx)
		if err != nil {
			return err
		}
		p.Configuration[k] = v
	}
	return iprot.ReadMapEnd(ctx)
}

// TIOError is raised by the gateway for any failure inside HBase; Message
// carries the server side exception class and text.
type TIOError struct {
	Message  *string
	CanRetry *bool
}

func (p *TIOError) GetMessage() string {
	if p == nil || p.Message == nil {
		return ""
	}
	return *p.Message
}

func (p *TIOError) Error() string {
	return fmt.Sprintf("TIOError(%s)", p.GetMessage())
}

func (p *TIOError) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TIOError", func() error {
		if p.Message != nil {
			if err := writeStringField(ctx, oprot, "message", 1, *p.Message); err != nil {
				return err
			}
		}
		if p.CanRetry != nil {
			return writeBoolField(ctx, oprot, "canRetry", 2, *p.CanRetry)
		}
		return nil
	})
}

func (p *TIOError) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			var v string
			v, err = iprot.ReadString(ctx)
			p.Message = &v
		case id == 2 && typ == thrift.BOOL:
			var v bool
			v, err = iprot.ReadBool(ctx)
			p.CanRetry = &v
		default:
			return false, nil
		}
		return true, err
	})
}

// TIllegalArgument is raised when a request is malformed.
type TIllegalArgument struct {
	Message *string
}

func (p *TIllegalArgument) GetMessage() string {
	if p == nil || p.Message == nil {
		return ""
	}
	return *p.Message
}

func (p *TIllegalArgument) Error() string {
	return fmt.Sprintf("TIllegalArgument(%s)", p.GetMessage())
}

func (p *TIllegalArgument) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "TIllegalArgument", func() error {
		if p.Message != nil {
			return writeStringField(ctx, oprot, "message", 1, *p.Message)
		}
		return nil
	})
}

func (p *TIllegalArgument) Read(ctx context.Context, iprot thrift.TProtocol) error {
	var err error
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		if id == 1 && typ == thrift.STRING {
			var v string
			v, err = iprot.ReadString(ctx)
			p.Message = &v
			return true, err
		}
		return false, nil
	})
}

// NewTIOError builds a TIOError with the given message.
func NewTIOError(format string, args ...interface{}) *TIOError {
	msg := fmt.Sprintf(format, args...)
	return &TIOError{Message: &msg}
}
