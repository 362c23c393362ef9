package hbase

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// writeStruct frames the fields written by body with struct begin/stop/end.
func writeStruct(ctx context.Context, oprot thrift.TProtocol, name string, body func() error) error {
	if err := oprot.WriteStructBegin(ctx, name); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s write struct begin error: ", name), err)
	}
	if err := body(); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s write field stop error: ", name), err)
	}
	if err := oprot.WriteStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s write struct end error: ", name), err)
	}
	return nil
}

func writeField(ctx context.Context, oprot thrift.TProtocol, name string, typ thrift.TType, id int16, body func() error) error {
	if err := oprot.WriteFieldBegin(ctx, name, typ, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
	}
	if err := body(); err != nil {
		return thrift.PrependError(fmt.Sprintf("field %d (%s) write error: ", id, name), err)
	}
	if err := oprot.WriteFieldEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field end error %d:%s: ", id, name), err)
	}
	return nil
}

func writeBinaryField(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v []byte) error {
	return writeField(ctx, oprot, name, thrift.STRING, id, func() error {
		return oprot.WriteBinary(ctx, v)
	})
}

func writeStringField(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v string) error {
	return writeField(ctx, oprot, name, thrift.STRING, id, func() error {
		return oprot.WriteString(ctx, v)
	})
}

func writeI64Field(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v int64) error {
	return writeField(ctx, oprot, name, thrift.I64, id, func() error {
		return oprot.WriteI64(ctx, v)
	})
}

func writeI32Field(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v int32) error {
	return writeField(ctx, oprot, name, thrift.I32, id, func() error {
		return oprot.WriteI32(ctx, v)
	})
}

func writeBoolField(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v bool) error {
	return writeField(ctx, oprot, name, thrift.BOOL, id, func() error {
		return oprot.WriteBool(ctx, v)
	})
}

func writeStructField(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v thrift.TStruct) error {
	return writeField(ctx, oprot, name, thrift.STRUCT, id, func() error {
		return v.Write(ctx, oprot)
	})
}

func writeList(ctx context.Context, oprot thrift.TProtocol, elem thrift.TType, n int, each func(i int) error) error {
	if err := oprot.WriteListBegin(ctx, elem, n); err != nil {
		return thrift.PrependError("error writing list begin: ", err)
	}
	for i := 0; i < n; i++ {
		if err := each(i); err != nil {
			return err
		}
	}
	if err := oprot.WriteListEnd(ctx); err != nil {
		return thrift.PrependError("error writing list end: ", err)
	}
	return nil
}

// readStruct walks every field of the next struct on iprot. fn reports
// whether it consumed the field; unclaimed fields are skipped.
func readStruct(ctx context.Context, iprot thrift.TProtocol, fn func(id int16, typ thrift.TType) (bool, error)) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError("read struct begin error: ", err)
	}
	for {
		_, typ, id, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("field %d read error: ", id), err)
		}
		if typ == thrift.STOP {
			break
		}
		ok, err := fn(id, typ)
		if err != nil {
			return err
		}
		if !ok {
			if err := iprot.Skip(ctx, typ); err != nil {
				return err
			}
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError("read struct end error: ", err)
	}
	return nil
}

func readList(ctx context.Context, iprot thrift.TProtocol, each func() error) error {
	_, size, err := iprot.ReadListBegin(ctx)
	if err != nil {
		return thrift.PrependError("error reading list begin: ", err)
	}
	for i := 0; i < size; i++ {
		if err := each(); err != nil {
			return err
		}
	}
	if err := iprot.ReadListEnd(ctx); err != nil {
		return thrift.PrependError("error reading list end: ", err)
	}
	return nil
}

func missingField(strct, field string) error {
	return thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA,
		fmt.Errorf("required field %s of %s is not set", field, strct))
}
