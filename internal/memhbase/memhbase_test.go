package memhbase

import (
	"context"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/challenai/hbdemo"
	"github.com/challenai/hbdemo/thrift/hbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var student = &hbase.TTableName{Ns: []byte("huangxiaodi"), Qualifier: []byte("student")}

func newStudentTable(t *testing.T) (*Cluster, hbdemo.Handle) {
	ctx := context.Background()
	c := NewCluster()
	h, err := c.Dial(ctx, hbdemo.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, h.CreateNamespace(ctx, &hbase.TNamespaceDescriptor{Name: "huangxiaodi"}))
	require.NoError(t, h.CreateTable(ctx, &hbase.TTableDescriptor{
		TableName: student,
		Columns: []*hbase.TColumnFamilyDescriptor{
			{Name: []byte("info")},
			{Name: []byte("score")},
		},
	}, nil))
	return c, h
}

func ioMessage(t *testing.T, err error) string {
	var ioe *hbase.TIOError
	require.ErrorAs(t, err, &ioe)
	return ioe.GetMessage()
}

func TestCreateTableRules(t *testing.T) {
	ctx := context.Background()
	c, h := newStudentTable(t)

	err := h.CreateNamespace(ctx, &hbase.TNamespaceDescriptor{Name: "huangxiaodi"})
	assert.Contains(t, ioMessage(t, err), "NamespaceExistException")

	err = h.CreateTable(ctx, &hbase.TTableDescriptor{TableName: student, Columns: []*hbase.TColumnFamilyDescriptor{{Name: []byte("info")}}}, nil)
	assert.Contains(t, ioMessage(t, err), "TableExistsException")

	err = h.CreateTable(ctx, &hbase.TTableDescriptor{
		TableName: &hbase.TTableName{Ns: []byte("nowhere"), Qualifier: []byte("student")},
		Columns:   []*hbase.TColumnFamilyDescriptor{{Name: []byte("info")}},
	}, nil)
	assert.Contains(t, ioMessage(t, err), "NamespaceNotFoundException")

	fams, ok := c.Families("huangxiaodi", "student")
	require.True(t, ok)
	assert.Equal(t, []string{"info", "score"}, fams)

	exists, err := h.TableExists(ctx, &hbase.TTableName{Qualifier: []byte("student")})
	require.NoError(t, err)
	assert.False(t, exists, "default namespace is separate")
}

func TestDropRequiresDisable(t *testing.T) {
	ctx := context.Background()
	c, h := newStudentTable(t)

	err := h.DeleteTable(ctx, student)
	assert.Contains(t, ioMessage(t, err), "TableNotDisabledException")

	require.NoError(t, h.DisableTable(ctx, student))
	err = h.DisableTable(ctx, student)
	assert.Contains(t, ioMessage(t, err), "TableNotEnabledException")

	_, err = h.Get(ctx, []byte("huangxiaodi:student"), &hbase.TGet{Row: []byte("r")})
	assert.Contains(t, ioMessage(t, err), "is disabled")

	require.NoError(t, h.DeleteTable(ctx, student))
	_, ok := c.Families("huangxiaodi", "student")
	assert.False(t, ok)
	_, err = h.GetTableDescriptor(ctx, student)
	assert.Contains(t, ioMessage(t, err), "TableNotFoundException")
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	_, h := newStudentTable(t)
	name := []byte("huangxiaodi:student")
	row := []byte("G20210675010604")

	require.NoError(t, h.PutMultiple(ctx, name, []*hbase.TPut{
		{Row: row, ColumnValues: []*hbase.TColumnValue{
			{Family: []byte("score"), Qualifier: []byte("programming"), Value: []byte("60")},
			{Family: []byte("info"), Qualifier: []byte("name"), Value: []byte("huangxiaodi")},
			{Family: []byte("info"), Qualifier: []byte("class"), Value: []byte("5")},
		}},
	}))

	res, err := h.Get(ctx, name, &hbase.TGet{Row: row})
	require.NoError(t, err)
	require.Len(t, res.ColumnValues, 3)
	assert.Equal(t, "class", string(res.ColumnValues[0].Qualifier))
	assert.Equal(t, "name", string(res.ColumnValues[1].Qualifier))
	assert.Equal(t, "score", string(res.ColumnValues[2].Family))

	require.NoError(t, h.DeleteSingle(ctx, name, &hbase.TDelete{Row: row, Columns: []*hbase.TColumn{
		{Family: []byte("info"), Qualifier: []byte("class")},
		{Family: []byte("score")},
	}}))
	res, err = h.Get(ctx, name, &hbase.TGet{Row: row})
	require.NoError(t, err)
	require.Len(t, res.ColumnValues, 1)
	assert.Equal(t, "name", string(res.ColumnValues[0].Qualifier))

	require.NoError(t, h.DeleteSingle(ctx, name, &hbase.TDelete{Row: row}))
	res, err = h.Get(ctx, name, &hbase.TGet{Row: row})
	require.NoError(t, err)
	assert.Empty(t, res.ColumnValues)
	assert.Nil(t, res.Row)
}

func TestPutMultipleIsAtomic(t *testing.T) {
	ctx := context.Background()
	_, h := newStudentTable(t)
	name := []byte("huangxiaodi:student")

	err := h.PutMultiple(ctx, name, []*hbase.TPut{
		{Row: []byte("a"), ColumnValues: []*hbase.TColumnValue{{Family: []byte("info"), Qualifier: []byte("name"), Value: []byte("x")}}},
		{Row: []byte("a"), ColumnValues: []*hbase.TColumnValue{{Family: []byte("grades"), Qualifier: []byte("x"), Value: []byte("x")}}},
	})
	assert.Contains(t, ioMessage(t, err), "NoSuchColumnFamilyException")

	res, err := h.Get(ctx, name, &hbase.TGet{Row: []byte("a")})
	require.NoError(t, err)
	assert.Empty(t, res.ColumnValues)
}

func TestFaultInjection(t *testing.T) {
	ctx := context.Background()
	c, h := newStudentTable(t)
	assert.Equal(t, 1, c.OpenSessions())

	c.FailNext("tableExists", hbase.NewTIOError("boom"))
	_, err := h.TableExists(ctx, student)
	assert.Error(t, err)
	_, err = h.TableExists(ctx, student)
	assert.NoError(t, err)
	assert.Equal(t, 2, c.Calls("tableExists"))

	c.SetDown(true)
	_, err = h.TableExists(ctx, student)
	var te thrift.TTransportException
	assert.ErrorAs(t, err, &te)
	_, err = c.Dial(ctx, hbdemo.RoleData)
	assert.ErrorAs(t, err, &te)
	c.SetDown(false)

	c.FailClose(hbdemo.RoleAdmin, assert.AnError)
	assert.ErrorIs(t, h.Close(), assert.AnError)
	assert.NoError(t, h.Close())
	assert.Equal(t, 0, c.OpenSessions())

	_, err = h.TableExists(ctx, student)
	assert.ErrorAs(t, err, &te)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Dial(cancelled, hbdemo.RoleData)
	assert.ErrorIs(t, err, context.Canceled)
}
