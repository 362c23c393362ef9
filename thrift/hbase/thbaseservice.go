package hbase

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// THBaseServiceClient issues THBaseService calls over a thrift.TClient.
// It is not safe for concurrent use unless the TClient is.
type THBaseServiceClient struct {
	c thrift.TClient
}

func NewTHBaseServiceClient(c thrift.TClient) *THBaseServiceClient {
	return &THBaseServiceClient{c: c}
}

// Get reads a single row. A missing row yields a result with a nil Row and
// no column values.
func (p *THBaseServiceClient) Get(ctx context.Context, table []byte, tget *TGet) (*TResult_, error) {
	args := &THBaseServiceGetArgs{Table: table, Tget: tget}
	var result THBaseServiceGetResult
	if _, err := p.c.Call(ctx, "get", args, &result); err != nil {
		return nil, err
	}
	if result.Io != nil {
		return nil, result.Io
	}
	if result.Success == nil {
		return nil, missingResult("get")
	}
	return result.Success, nil
}

// PutMultiple applies all puts in one request.
func (p *THBaseServiceClient) PutMultiple(ctx context.Context, table []byte, tputs []*TPut) error {
	args := &THBaseServicePutMultipleArgs{Table: table, Tputs: tputs}
	var result voidResult
	if _, err := p.c.Call(ctx, "putMultiple", args, &result); err != nil {
		return err
	}
	return result.err()
}

func (p *THBaseServiceClient) DeleteSingle(ctx context.Context, table []byte, tdelete *TDelete) error {
	args := &THBaseServiceDeleteSingleArgs{Table: table, Tdelete: tdelete}
	var result voidResult
	if _, err := p.c.Call(ctx, "deleteSingle", args, &result); err != nil {
		return err
	}
	return result.err()
}

func (p *THBaseServiceClient) CreateTable(ctx context.Context, desc *TTableDescriptor, splitKeys [][]byte) error {
	args := &THBaseServiceCreateTableArgs{Desc: desc, SplitKeys: splitKeys}
	var result voidResult
	if _, err := p.c.Call(ctx, "createTable", args, &result); err != nil {
		return err
	}
	return result.err()
}

func (p *THBaseServiceClient) DeleteTable(ctx context.Context, tableName *TTableName) error {
	args := &tableNameArgs{name: "deleteTable_args", TableName: tableName}
	var result voidResult
	if _, err := p.c.Call(ctx, "deleteTable", args, &result); err != nil {
		return err
	}
	return result.err()
}

func (p *THBaseServiceClient) DisableTable(ctx context.Context, tableName *TTableName) error {
	args := &tableNameArgs{name: "disableTable_args", TableName: tableName}
	var result voidResult
	if _, err := p.c.Call(ctx, "disableTable", args, &result); err != nil {
		return err
	}
	return result.err()
}

func (p *THBaseServiceClient) TableExists(ctx context.Context, tableName *TTableName) (bool, error) {
	args := &tableNameArgs{name: "tableExists_args", TableName: tableName}
	var result THBaseServiceTableExistsResult
	if _, err := p.c.Call(ctx, "tableExists", args, &result); err != nil {
		return false, err
	}
	if result.Io != nil {
		return false, result.Io
	}
	if result.Success == nil {
		return false, missingResult("tableExists")
	}
	return *result.Success, nil
}

func (p *THBaseServiceClient) GetTableDescriptor(ctx context.Context, table *TTableName) (*TTableDescriptor, error) {
	args := &tableNameArgs{name: "getTableDescriptor_args", TableName: table}
	var result THBaseServiceGetTableDescriptorResult
	if _, err := p.c.Call(ctx, "getTableDescriptor", args, &result); err != nil {
		return nil, err
	}
	if result.Io != nil {
		return nil, result.Io
	}
	if result.Success == nil {
		return nil, missingResult("getTableDescriptor")
	}
	return result.Success, nil
}

func (p *THBaseServiceClient) CreateNamespace(ctx context.Context, namespaceDesc *TNamespaceDescriptor) error {
	args := &THBaseServiceCreateNamespaceArgs{NamespaceDesc: namespaceDesc}
	var result voidResult
	if _, err := p.c.Call(ctx, "createNamespace", args, &result); err != nil {
		return err
	}
	return result.err()
}

func (p *THBaseServiceClient) ListNamespaceDescriptors(ctx context.Context) ([]*TNamespaceDescriptor, error) {
	var result THBaseServiceListNamespaceDescriptorsResult
	if _, err := p.c.Call(ctx, "listNamespaceDescriptors", &emptyArgs{name: "listNamespaceDescriptors_args"}, &result); err != nil {
		return nil, err
	}
	if result.Io != nil {
		return nil, result.Io
	}
	if result.Success == nil {
		return nil, missingResult("listNamespaceDescriptors")
	}
	return result.Success, nil
}

func missingResult(method string) error {
	return thrift.NewTApplicationException(thrift.MISSING_RESULT, method+" failed: unknown result")
}

// argument structs. Only the client direction is bound, so Read reports
// that decoding requests is unsupported.

var errServerSide = thrift.NewTProtocolExceptionWithType(thrift.NOT_IMPLEMENTED,
	errString("decoding THBaseService requests is not supported"))

type errString string

func (e errString) Error() string { return string(e) }

type THBaseServiceGetArgs struct {
	Table []byte
	Tget  *TGet
}

func (p *THBaseServiceGetArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "get_args", func() error {
		if err := writeBinaryField(ctx, oprot, "table", 1, p.Table); err != nil {
			return err
		}
		return writeStructField(ctx, oprot, "tget", 2, p.Tget)
	})
}

func (p *THBaseServiceGetArgs) Read(context.Context, thrift.TProtocol) error { return errServerSide }

type THBaseServicePutMultipleArgs struct {
	Table []byte
	Tputs []*TPut
}

func (p *THBaseServicePutMultipleArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "putMultiple_args", func() error {
		if err := writeBinaryField(ctx, oprot, "table", 1, p.Table); err != nil {
			return err
		}
		return writeField(ctx, oprot, "tputs", thrift.LIST, 2, func() error {
			return writeList(ctx, oprot, thrift.STRUCT, len(p.Tputs), func(i int) error {
				return p.Tputs[i].Write(ctx, oprot)
			})
		})
	})
}

func (p *THBaseServicePutMultipleArgs) Read(context.Context, thrift.TProtocol) error {
	return errServerSide
}

type THBaseServiceDeleteSingleArgs struct {
	Table   []byte
	Tdelete *TDelete
}

func (p *THBaseServiceDeleteSingleArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "deleteSingle_args", func() error {
		if err := writeBinaryField(ctx, oprot, "table", 1, p.Table); err != nil {
			return err
		}
		return writeStructField(ctx, oprot, "tdelete", 2, p.Tdelete)
	})
}

func (p *THBaseServiceDeleteSingleArgs) Read(context.Context, thrift.TProtocol) error {
	return errServerSide
}

type THBaseServiceCreateTableArgs struct {
	Desc      *TTableDescriptor
	SplitKeys [][]byte
}

func (p *THBaseServiceCreateTableArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "createTable_args", func() error {
		if err := writeStructField(ctx, oprot, "desc", 1, p.Desc); err != nil {
			return err
		}
		if p.SplitKeys == nil {
			return nil
		}
		return writeField(ctx, oprot, "splitKeys", thrift.LIST, 2, func() error {
			return writeList(ctx, oprot, thrift.STRING, len(p.SplitKeys), func(i int) error {
				return oprot.WriteBinary(ctx, p.SplitKeys[i])
			})
		})
	})
}

func (p *THBaseServiceCreateTableArgs) Read(context.Context, thrift.TProtocol) error {
	return errServerSide
}

type THBaseServiceCreateNamespaceArgs struct {
	NamespaceDesc *TNamespaceDescriptor
}

func (p *THBaseServiceCreateNamespaceArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "createNamespace_args", func() error {
		return writeStructField(ctx, oprot, "namespaceDesc", 1, p.NamespaceDesc)
	})
}

func (p *THBaseServiceCreateNamespaceArgs) Read(context.Context, thrift.TProtocol) error {
	return errServerSide
}

// tableNameArgs is shared by every call whose only argument is field 1, a
// TTableName.
type tableNameArgs struct {
	name      string
	TableName *TTableName
}

func (p *tableNameArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, p.name, func() error {
		return writeStructField(ctx, oprot, "tableName", 1, p.TableName)
	})
}

func (p *tableNameArgs) Read(context.Context, thrift.TProtocol) error { return errServerSide }

type emptyArgs struct {
	name string
}

func (p *emptyArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, p.name, func() error { return nil })
}

func (p *emptyArgs) Read(context.Context, thrift.TProtocol) error { return errServerSide }

// result structs. Field 0 is the return value, field 1 the TIOError.

func writeIOField(ctx context.Context, oprot thrift.TProtocol, io *TIOError) error {
	if io == nil {
		return nil
	}
	return writeStructField(ctx, oprot, "io", 1, io)
}

func readIOField(ctx context.Context, iprot thrift.TProtocol, id int16, typ thrift.TType, io **TIOError) (bool, error) {
	if id != 1 || typ != thrift.STRUCT {
		return false, nil
	}
	*io = &TIOError{}
	return true, (*io).Read(ctx, iprot)
}

type voidResult struct {
	Io *TIOError
}

func (p *voidResult) err() error {
	if p.Io != nil {
		return p.Io
	}
	return nil
}

func (p *voidResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "void_result", func() error {
		return writeIOField(ctx, oprot, p.Io)
	})
}

func (p *voidResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		return readIOField(ctx, iprot, id, typ, &p.Io)
	})
}

type THBaseServiceGetResult struct {
	Success *TResult_
	Io      *TIOError
}

func (p *THBaseServiceGetResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "get_result", func() error {
		if p.Success != nil {
			if err := writeStructField(ctx, oprot, "success", 0, p.Success); err != nil {
				return err
			}
		}
		return writeIOField(ctx, oprot, p.Io)
	})
}

func (p *THBaseServiceGetResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		if id == 0 && typ == thrift.STRUCT {
			p.Success = &TResult_{}
			return true, p.Success.Read(ctx, iprot)
		}
		return readIOField(ctx, iprot, id, typ, &p.Io)
	})
}

type THBaseServiceTableExistsResult struct {
	Success *bool
	Io      *TIOError
}

func (p *THBaseServiceTableExistsResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "tableExists_result", func() error {
		if p.Success != nil {
			if err := writeBoolField(ctx, oprot, "success", 0, *p.Success); err != nil {
				return err
			}
		}
		return writeIOField(ctx, oprot, p.Io)
	})
}

func (p *THBaseServiceTableExistsResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		if id == 0 && typ == thrift.BOOL {
			v, err := iprot.ReadBool(ctx)
			p.Success = &v
			return true, err
		}
		return readIOField(ctx, iprot, id, typ, &p.Io)
	})
}

type THBaseServiceGetTableDescriptorResult struct {
	Success *TTableDescriptor
	Io      *TIOError
}

func (p *THBaseServiceGetTableDescriptorResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "getTableDescriptor_result", func() error {
		if p.Success != nil {
			if err := writeStructField(ctx, oprot, "success", 0, p.Success); err != nil {
				return err
			}
		}
		return writeIOField(ctx, oprot, p.Io)
	})
}

func (p *THBaseServiceGetTableDescriptorResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		if id == 0 && typ == thrift.STRUCT {
			p.Success = &TTableDescriptor{}
			return true, p.Success.Read(ctx, iprot)
		}
		return readIOField(ctx, iprot, id, typ, &p.Io)
	})
}

type THBaseServiceListNamespaceDescriptorsResult struct {
	Success []*TNamespaceDescriptor
	Io      *TIOError
}

func (p *THBaseServiceListNamespaceDescriptorsResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	return writeStruct(ctx, oprot, "listNamespaceDescriptors_result", func() error {
		if p.Success != nil {
			if err := writeField(ctx, oprot, "success", thrift.LIST, 0, func() error {
				return writeList(ctx, oprot, thrift.STRUCT, len(p.Success), func(i int) error {
					return p.Success[i].Write(ctx, oprot)
				})
			}); err != nil {
				return err
			}
		}
		return writeIOField(ctx, oprot, p.Io)
	})
}

func (p *THBaseServiceListNamespaceDescriptorsResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	return readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		if id == 0 && typ == thrift.LIST {
			p.Success = []*TNamespaceDescriptor{}
			return true, readList(ctx, iprot, func() error {
				nd := &TNamespaceDescriptor{}
				if err := nd.Read(ctx, iprot); err != nil {
					return err
				}
				p.Success = append(p.Success, nd)
				return nil
			})
		}
		return readIOField(ctx, iprot, id, typ, &p.Io)
	})
}
