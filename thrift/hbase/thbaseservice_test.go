package hbase

import (
	"context"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopbackClient serialises every request, then answers with the result
// returned by reply, pushed through a binary protocol buffer so both
// directions exercise the real encoders.
type loopbackClient struct {
	methods []string
	reply   func(method string, args thrift.TStruct) thrift.TStruct
	last    []byte
}

func (c *loopbackClient) Call(ctx context.Context, method string, args, result thrift.TStruct) (thrift.ResponseMeta, error) {
	c.methods = append(c.methods, method)

	reqBuf := thrift.NewTMemoryBuffer()
	if err := args.Write(ctx, thrift.NewTBinaryProtocolConf(reqBuf, nil)); err != nil {
		return thrift.ResponseMeta{}, err
	}
	c.last = reqBuf.Bytes()

	respBuf := thrift.NewTMemoryBuffer()
	if err := c.reply(method, args).Write(ctx, thrift.NewTBinaryProtocolConf(respBuf, nil)); err != nil {
		return thrift.ResponseMeta{}, err
	}
	return thrift.ResponseMeta{}, result.Read(ctx, thrift.NewTBinaryProtocolConf(respBuf, nil))
}

func TestGetDecodesCells(t *testing.T) {
	lc := &loopbackClient{reply: func(method string, args thrift.TStruct) thrift.TStruct {
		get := args.(*THBaseServiceGetArgs)
		return &THBaseServiceGetResult{Success: &TResult_{
			Row: get.Tget.Row,
			ColumnValues: []*TColumnValue{
				{Family: []byte("info"), Qualifier: []byte("name"), Value: []byte("huangxiaodi")},
				{Family: []byte("score"), Qualifier: []byte("programming"), Value: []byte("60")},
			},
		}}
	}}
	client := NewTHBaseServiceClient(lc)

	res, err := client.Get(context.Background(), []byte("ns:student"), &TGet{Row: []byte("r1")})
	require.NoError(t, err)
	assert.Equal(t, []string{"get"}, lc.methods)
	assert.Equal(t, []byte("r1"), res.Row)
	require.Len(t, res.ColumnValues, 2)
	assert.Equal(t, "score", string(res.ColumnValues[1].Family))
	assert.Equal(t, "60", string(res.ColumnValues[1].GetValue()))
}

func TestGetRequestEncoding(t *testing.T) {
	lc := &loopbackClient{reply: func(string, thrift.TStruct) thrift.TStruct {
		return &THBaseServiceGetResult{Success: &TResult_{}}
	}}
	client := NewTHBaseServiceClient(lc)
	_, err := client.Get(context.Background(), []byte("ns:student"), &TGet{Row: []byte("r1")})
	require.NoError(t, err)

	ctx := context.Background()
	buf := thrift.NewTMemoryBuffer()
	_, err = buf.Write(lc.last)
	require.NoError(t, err)
	iprot := thrift.NewTBinaryProtocolConf(buf, nil)

	var table []byte
	var tget TGet
	err = readStruct(ctx, iprot, func(id int16, typ thrift.TType) (bool, error) {
		switch id {
		case 1:
			var err error
			table, err = iprot.ReadBinary(ctx)
			return true, err
		case 2:
			return true, tget.Read(ctx, iprot)
		}
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ns:student", string(table))
	assert.Equal(t, "r1", string(tget.Row))
	assert.Nil(t, tget.Columns)
}

func TestIOErrorIsReturned(t *testing.T) {
	lc := &loopbackClient{reply: func(method string, _ thrift.TStruct) thrift.TStruct {
		ioErr := NewTIOError("org.apache.hadoop.hbase.TableNotFoundException: ns:missing")
		switch method {
		case "tableExists":
			return &THBaseServiceTableExistsResult{Io: ioErr}
		default:
			return &voidResult{Io: ioErr}
		}
	}}
	client := NewTHBaseServiceClient(lc)
	ctx := context.Background()
	tn := &TTableName{Ns: []byte("ns"), Qualifier: []byte("missing")}

	_, err := client.TableExists(ctx, tn)
	require.Error(t, err)
	ioErr, ok := err.(*TIOError)
	require.True(t, ok)
	assert.Contains(t, ioErr.GetMessage(), "TableNotFoundException")

	err = client.DisableTable(ctx, tn)
	require.IsType(t, &TIOError{}, err)

	err = client.PutMultiple(ctx, []byte("ns:missing"), []*TPut{{
		Row:          []byte("r"),
		ColumnValues: []*TColumnValue{{Family: []byte("f"), Qualifier: []byte("q"), Value: []byte("v")}},
	}})
	require.IsType(t, &TIOError{}, err)
	assert.Equal(t, []string{"tableExists", "disableTable", "putMultiple"}, lc.methods)
}

func TestAdminResults(t *testing.T) {
	yes := true
	lc := &loopbackClient{reply: func(method string, _ thrift.TStruct) thrift.TStruct {
		switch method {
		case "tableExists":
			return &THBaseServiceTableExistsResult{Success: &yes}
		case "listNamespaceDescriptors":
			return &THBaseServiceListNamespaceDescriptorsResult{Success: []*TNamespaceDescriptor{
				{Name: "default"},
				{Name: "huangxiaodi", Configuration: map[string]string{"hbase.namespace.quota.maxtables": "10"}},
			}}
		case "getTableDescriptor":
			return &THBaseServiceGetTableDescriptorResult{Success: &TTableDescriptor{
				TableName: &TTableName{Ns: []byte("huangxiaodi"), Qualifier: []byte("student")},
				Columns:   []*TColumnFamilyDescriptor{{Name: []byte("info")}, {Name: []byte("score")}},
			}}
		}
		return &voidResult{}
	}}
	client := NewTHBaseServiceClient(lc)
	ctx := context.Background()
	tn := &TTableName{Ns: []byte("huangxiaodi"), Qualifier: []byte("student")}

	exists, err := client.TableExists(ctx, tn)
	require.NoError(t, err)
	assert.True(t, exists)

	nss, err := client.ListNamespaceDescriptors(ctx)
	require.NoError(t, err)
	require.Len(t, nss, 2)
	assert.Equal(t, "huangxiaodi", nss[1].GetName())
	assert.Equal(t, "10", nss[1].Configuration["hbase.namespace.quota.maxtables"])

	desc, err := client.GetTableDescriptor(ctx, tn)
	require.NoError(t, err)
	assert.Equal(t, "huangxiaodi:student", desc.TableName.String())
	require.Len(t, desc.Columns, 2)
	assert.Equal(t, "score", string(desc.Columns[1].Name))

	require.NoError(t, client.CreateNamespace(ctx, &TNamespaceDescriptor{Name: "huangxiaodi"}))
	require.NoError(t, client.CreateTable(ctx, desc, nil))
	require.NoError(t, client.DeleteSingle(ctx, []byte("huangxiaodi:student"), &TDelete{Row: []byte("r")}))
	require.NoError(t, client.DeleteTable(ctx, tn))
}

func TestMissingResult(t *testing.T) {
	lc := &loopbackClient{reply: func(string, thrift.TStruct) thrift.TStruct {
		return &THBaseServiceTableExistsResult{}
	}}
	_, err := NewTHBaseServiceClient(lc).TableExists(context.Background(), &TTableName{Qualifier: []byte("t")})
	require.Error(t, err)
	appErr, ok := err.(thrift.TApplicationException)
	require.True(t, ok)
	assert.Equal(t, int32(thrift.MISSING_RESULT), appErr.TypeId())
}

func TestListNamespacesMissingResult(t *testing.T) {
	ctx := context.Background()
	lc := &loopbackClient{reply: func(string, thrift.TStruct) thrift.TStruct {
		return &THBaseServiceListNamespaceDescriptorsResult{}
	}}
	_, err := NewTHBaseServiceClient(lc).ListNamespaceDescriptors(ctx)
	appErr, ok := err.(thrift.TApplicationException)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, int32(thrift.MISSING_RESULT), appErr.TypeId())

	lc.reply = func(string, thrift.TStruct) thrift.TStruct {
		return &THBaseServiceListNamespaceDescriptorsResult{Success: []*TNamespaceDescriptor{}}
	}
	nss, err := NewTHBaseServiceClient(lc).ListNamespaceDescriptors(ctx)
	require.NoError(t, err)
	assert.Empty(t, nss)
}

func TestTableNameString(t *testing.T) {
	assert.Equal(t, "student", (&TTableName{Qualifier: []byte("student")}).String())
	assert.Equal(t, "ns:student", (&TTableName{Ns: []byte("ns"), Qualifier: []byte("student")}).String())
}
