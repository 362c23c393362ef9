// Package scenario runs the student record walkthrough: provision a
// namespace and table, write two column families of one row, read the row
// back and optionally delete it.
package scenario

import (
	"context"

	"github.com/challenai/hbdemo"
	"github.com/challenai/hbdemo/logger"
)

// Store is the part of the facade the walkthrough needs.
type Store interface {
	EnsureNamespace(ctx context.Context, namespace string) error
	EnsureTable(ctx context.Context, namespace, table string, policy hbdemo.TablePolicy, families ...string) error
	WriteColumns(ctx context.Context, namespace, table, rowKey, family string, values []hbdemo.ColumnValue) error
	ReadRow(ctx context.Context, namespace, table, rowKey string) ([]hbdemo.Cell, error)
	DeleteRow(ctx context.Context, namespace, table, rowKey string) error
}

var _ Store = (*hbdemo.Facade)(nil)

// Group is a batch of columns written into one family.
type Group struct {
	Family  string
	Columns []hbdemo.ColumnValue
}

type Plan struct {
	Namespace string
	Table     string
	Families  []string
	RowKey    string
	Groups    []Group
	Policy    hbdemo.TablePolicy
	Delete    bool
}

// StudentPlan is the default walkthrough: student G20210675010604 of
// namespace huangxiaodi, with info and score families.
func StudentPlan() Plan {
	const studentID = "G20210675010604"
	return Plan{
		Namespace: "huangxiaodi",
		Table:     "student",
		Families:  []string{"info", "score"},
		RowKey:    studentID,
		Groups: []Group{
			{Family: "info", Columns: []hbdemo.ColumnValue{
				{Qualifier: "name", Value: "huangxiaodi"},
				{Qualifier: "student_id", Value: studentID},
				{Qualifier: "class", Value: "5"},
			}},
			{Family: "score", Columns: []hbdemo.ColumnValue{
				{Qualifier: "understanding", Value: "60"},
				{Qualifier: "programming", Value: "60"},
			}},
		},
	}
}

// Run executes p against s and returns the cells read back. It stops at
// the first failing step.
func Run(ctx context.Context, s Store, p Plan, log logger.Logger) ([]hbdemo.Cell, error) {
	if err := s.EnsureNamespace(ctx, p.Namespace); err != nil {
		return nil, err
	}
	if err := s.EnsureTable(ctx, p.Namespace, p.Table, p.Policy, p.Families...); err != nil {
		return nil, err
	}
	for _, g := range p.Groups {
		if err := s.WriteColumns(ctx, p.Namespace, p.Table, p.RowKey, g.Family, g.Columns); err != nil {
			return nil, err
		}
	}

	cells, err := s.ReadRow(ctx, p.Namespace, p.Table, p.RowKey)
	if err != nil {
		return nil, err
	}
	log.Infof("row %s of %s:%s:", p.RowKey, p.Namespace, p.Table)
	for _, c := range cells {
		log.Infof("family %s, column %s, value %s", c.Family, c.Qualifier, c.Value)
	}

	if p.Delete {
		if err := s.DeleteRow(ctx, p.Namespace, p.Table, p.RowKey); err != nil {
			return cells, err
		}
	}
	return cells, nil
}
