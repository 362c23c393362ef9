package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/challenai/hbdemo"
	"github.com/challenai/hbdemo/internal/memhbase"
	"github.com/challenai/hbdemo/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFacade(t *testing.T) (*hbdemo.Facade, *memhbase.Cluster) {
	cluster := memhbase.NewCluster()
	f := hbdemo.New(cluster.Dial, hbdemo.WithLogger(logger.Nop()))
	require.NoError(t, f.Open(context.Background()))
	t.Cleanup(f.Close)
	return f, cluster
}

func TestStudentPlan(t *testing.T) {
	f, cluster := newFacade(t)
	var buf bytes.Buffer

	cells, err := Run(context.Background(), f, StudentPlan(), logger.NewWriterLogger(&buf))
	require.NoError(t, err)
	require.Len(t, cells, 5)
	assert.Equal(t, map[string]map[string]string{
		"info":  {"name": "huangxiaodi", "student_id": "G20210675010604", "class": "5"},
		"score": {"understanding": "60", "programming": "60"},
	}, hbdemo.GroupByFamily(cells))
	assert.Equal(t, 0, cluster.Calls("deleteSingle"))
	assert.Contains(t, buf.String(), "family score, column programming, value 60")

	// the row is still there for the next run
	again, err := f.ReadRow(context.Background(), "huangxiaodi", "student", "G20210675010604")
	require.NoError(t, err)
	assert.Len(t, again, 5)
}

func TestRerunWithRecreate(t *testing.T) {
	f, cluster := newFacade(t)
	ctx := context.Background()
	_, err := Run(ctx, f, StudentPlan(), logger.Nop())
	require.NoError(t, err)

	p := StudentPlan()
	p.Policy = hbdemo.Recreate
	p.Groups = p.Groups[1:]
	cells, err := Run(ctx, f, p, logger.Nop())
	require.NoError(t, err)
	assert.Len(t, cells, 2)
	assert.Equal(t, 1, cluster.Calls("deleteTable"))
	assert.Equal(t, 1, cluster.Calls("createNamespace"))
}

func TestRunWithDelete(t *testing.T) {
	f, cluster := newFacade(t)
	p := StudentPlan()
	p.Delete = true

	cells, err := Run(context.Background(), f, p, logger.Nop())
	require.NoError(t, err)
	assert.Len(t, cells, 5)
	assert.Equal(t, 1, cluster.Calls("deleteSingle"))

	left, err := f.ReadRow(context.Background(), p.Namespace, p.Table, p.RowKey)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	f, cluster := newFacade(t)
	p := StudentPlan()
	p.Groups[1].Family = "grades"

	_, err := Run(context.Background(), f, p, logger.Nop())
	require.Error(t, err)
	assert.True(t, hbdemo.IsDataOperation(err))
	assert.Equal(t, 0, cluster.Calls("get"))
}
