// Package memhbase is an in-memory stand-in for an HBase cluster behind a
// thrift gateway. It follows the server side rules the facade depends on:
// namespaces must exist before tables, tables must be disabled before they
// are dropped and writes must target declared column families.
package memhbase

import (
	"context"
	"sort"
	"sync"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/challenai/hbdemo"
	"github.com/challenai/hbdemo/thrift/hbase"
	"github.com/challenai/hbdemo/utils"
)

type table struct {
	name     *hbase.TTableName
	families []string
	enabled  bool
	rows     map[string]map[string]map[string][]byte // row -> family -> qualifier -> value
}

func (t *table) hasFamily(name string) bool {
	for _, f := range t.families {
		if f == name {
			return true
		}
	}
	return false
}

// Cluster holds the namespaces, tables and rows. Handles returned by Dial
// share it.
type Cluster struct {
	mu         sync.Mutex
	namespaces map[string]map[string]string
	tables     map[string]*table
	calls      map[string]int
	failNext   map[string]error
	closeErrs  map[hbdemo.Role]error
	down       bool
	sessions   int
}

// NewCluster returns a cluster holding only the built-in namespaces.
func NewCluster() *Cluster {
	return &Cluster{
		namespaces: map[string]map[string]string{
			utils.DefaultNamespace: nil,
			"hbase":                nil,
		},
		tables:    map[string]*table{},
		calls:     map[string]int{},
		failNext:  map[string]error{},
		closeErrs: map[hbdemo.Role]error{},
	}
}

// SetDown makes every dial and every call fail with a transport error.
func (c *Cluster) SetDown(down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.down = down
}

// FailNext makes the next call of method return err.
func (c *Cluster) FailNext(method string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext[method] = err
}

// FailClose makes closing handles opened for role return err.
func (c *Cluster) FailClose(role hbdemo.Role, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeErrs[role] = err
}

// Calls reports how many times method reached the cluster.
func (c *Cluster) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// OpenSessions reports the handles dialled and not yet closed.
func (c *Cluster) OpenSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions
}

// Families returns the column families of namespace:name.
func (c *Cluster) Families(namespace, name string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[string(utils.TableName(namespace, name))]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t.families...), true
}

// Dial opens a handle on the cluster.
func (c *Cluster) Dial(ctx context.Context, role hbdemo.Role) (hbdemo.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return nil, thrift.NewTTransportException(thrift.NOT_OPEN, "connection refused")
	}
	c.sessions++
	return &Session{c: c, role: role}, nil
}

// Session is one handle on a Cluster.
type Session struct {
	c      *Cluster
	role   hbdemo.Role
	closed bool
}

var _ hbdemo.Handle = (*Session)(nil)

func (s *Session) Close() error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.c.sessions--
	return s.c.closeErrs[s.role]
}

// enter locks the cluster for one call. On success the caller must
// unlock c.mu; on error the lock is already released.
func (s *Session) enter(ctx context.Context, method string) error {
	s.c.mu.Lock()
	if err := s.admit(ctx, method); err != nil {
		s.c.mu.Unlock()
		return err
	}
	return nil
}

func (s *Session) admit(ctx context.Context, method string) error {
	s.c.calls[method]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return thrift.NewTTransportException(thrift.NOT_OPEN, "handle is closed")
	}
	if s.c.down {
		return thrift.NewTTransportException(thrift.TIMED_OUT, "gateway unreachable")
	}
	if err, ok := s.c.failNext[method]; ok {
		delete(s.c.failNext, method)
		return err
	}
	return nil
}

func (s *Session) ListNamespaceDescriptors(ctx context.Context) ([]*hbase.TNamespaceDescriptor, error) {
	if err := s.enter(ctx, "listNamespaceDescriptors"); err != nil {
		return nil, err
	}
	defer s.c.mu.Unlock()
	names := make([]string, 0, len(s.c.namespaces))
	for name := range s.c.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	descs := make([]*hbase.TNamespaceDescriptor, 0, len(names))
	for _, name := range names {
		descs = append(descs, &hbase.TNamespaceDescriptor{Name: name, Configuration: s.c.namespaces[name]})
	}
	return descs, nil
}

func (s *Session) CreateNamespace(ctx context.Context, desc *hbase.TNamespaceDescriptor) error {
	if err := s.enter(ctx, "createNamespace"); err != nil {
		return err
	}
	defer s.c.mu.Unlock()
	if _, ok := s.c.namespaces[desc.Name]; ok {
		return hbase.NewTIOError("org.apache.hadoop.hbase.NamespaceExistException: %s", desc.Name)
	}
	s.c.namespaces[desc.Name] = desc.Configuration
	return nil
}

func (s *Session) TableExists(ctx context.Context, tn *hbase.TTableName) (bool, error) {
	if err := s.enter(ctx, "tableExists"); err != nil {
		return false, err
	}
	defer s.c.mu.Unlock()
	_, ok := s.c.tables[key(tn)]
	return ok, nil
}

func (s *Session) GetTableDescriptor(ctx context.Context, tn *hbase.TTableName) (*hbase.TTableDescriptor, error) {
	if err := s.enter(ctx, "getTableDescriptor"); err != nil {
		return nil, err
	}
	defer s.c.mu.Unlock()
	t, ok := s.c.tables[key(tn)]
	if !ok {
		return nil, tableNotFound(tn)
	}
	desc := &hbase.TTableDescriptor{TableName: t.name}
	for _, f := range t.families {
		desc.Columns = append(desc.Columns, &hbase.TColumnFamilyDescriptor{Name: []byte(f)})
	}
	return desc, nil
}

func (s *Session) DisableTable(ctx context.Context, tn *hbase.TTableName) error {
	if err := s.enter(ctx, "disableTable"); err != nil {
		return err
	}
	defer s.c.mu.Unlock()
	t, ok := s.c.tables[key(tn)]
	if !ok {
		return tableNotFound(tn)
	}
	if !t.enabled {
		return hbase.NewTIOError("org.apache.hadoop.hbase.TableNotEnabledException: %s", key(tn))
	}
	t.enabled = false
	return nil
}

func (s *Session) DeleteTable(ctx context.Context, tn *hbase.TTableName) error {
	if err := s.enter(ctx, "deleteTable"); err != nil {
		return err
	}
	defer s.c.mu.Unlock()
	t, ok := s.c.tables[key(tn)]
	if !ok {
		return tableNotFound(tn)
	}
	if t.enabled {
		return hbase.NewTIOError("org.apache.hadoop.hbase.TableNotDisabledException: %s", key(tn))
	}
	delete(s.c.tables, key(tn))
	return nil
}

func (s *Session) CreateTable(ctx context.Context, desc *hbase.TTableDescriptor, _ [][]byte) error {
	if err := s.enter(ctx, "createTable"); err != nil {
		return err
	}
	defer s.c.mu.Unlock()
	ns := utils.NamespaceOf(desc.TableName.Ns)
	if _, ok := s.c.namespaces[ns]; !ok {
		return hbase.NewTIOError("org.apache.hadoop.hbase.NamespaceNotFoundException: %s", ns)
	}
	k := key(desc.TableName)
	if _, ok := s.c.tables[k]; ok {
		return hbase.NewTIOError("org.apache.hadoop.hbase.TableExistsException: %s", k)
	}
	if len(desc.Columns) == 0 {
		return hbase.NewTIOError("org.apache.hadoop.hbase.DoNotRetryIOException: Table should have at least one column family.")
	}
	t := &table{
		name:    &hbase.TTableName{Ns: []byte(ns), Qualifier: desc.TableName.Qualifier},
		enabled: true,
		rows:    map[string]map[string]map[string][]byte{},
	}
	for _, c := range desc.Columns {
		t.families = append(t.families, string(c.Name))
	}
	s.c.tables[k] = t
	return nil
}

// usable returns the enabled table addressed by the data call name.
func (s *Session) usable(name []byte) (*table, error) {
	ns, q := utils.SplitTableName(name)
	k := string(utils.TableName(ns, q))
	t, ok := s.c.tables[k]
	if !ok {
		return nil, hbase.NewTIOError("org.apache.hadoop.hbase.TableNotFoundException: %s", k)
	}
	if !t.enabled {
		return nil, hbase.NewTIOError("org.apache.hadoop.hbase.TableNotEnabledException: %s is disabled", k)
	}
	return t, nil
}

func (s *Session) Get(ctx context.Context, name []byte, tget *hbase.TGet) (*hbase.TResult_, error) {
	if err := s.enter(ctx, "get"); err != nil {
		return nil, err
	}
	defer s.c.mu.Unlock()
	t, err := s.usable(name)
	if err != nil {
		return nil, err
	}
	result := &hbase.TResult_{ColumnValues: []*hbase.TColumnValue{}}
	r, ok := t.rows[string(tget.Row)]
	if !ok {
		return result, nil
	}
	result.Row = append([]byte(nil), tget.Row...)
	for _, fam := range sortedKeys(r) {
		for _, q := range sortedKeys(r[fam]) {
			result.ColumnValues = append(result.ColumnValues, &hbase.TColumnValue{
				Family:    []byte(fam),
				Qualifier: []byte(q),
				Value:     append([]byte(nil), r[fam][q]...),
			})
		}
	}
	return result, nil
}

// PutMultiple validates the whole batch before applying any of it.
func (s *Session) PutMultiple(ctx context.Context, name []byte, tputs []*hbase.TPut) error {
	if err := s.enter(ctx, "putMultiple"); err != nil {
		return err
	}
	defer s.c.mu.Unlock()
	t, err := s.usable(name)
	if err != nil {
		return err
	}
	for _, p := range tputs {
		if len(p.Row) == 0 {
			return hbase.NewTIOError("java.lang.IllegalArgumentException: Row length is 0")
		}
		for _, cv := range p.ColumnValues {
			if !t.hasFamily(string(cv.Family)) {
				return hbase.NewTIOError("org.apache.hadoop.hbase.regionserver.NoSuchColumnFamilyException: Column family %s does not exist in table %s", cv.Family, name)
			}
		}
	}
	for _, p := range tputs {
		r, ok := t.rows[string(p.Row)]
		if !ok {
			r = map[string]map[string][]byte{}
			t.rows[string(p.Row)] = r
		}
		for _, cv := range p.ColumnValues {
			fam, ok := r[string(cv.Family)]
			if !ok {
				fam = map[string][]byte{}
				r[string(cv.Family)] = fam
			}
			fam[string(cv.Qualifier)] = append([]byte(nil), cv.Value...)
		}
	}
	return nil
}

// DeleteSingle removes the listed columns, or the whole row without any.
func (s *Session) DeleteSingle(ctx context.Context, name []byte, tdelete *hbase.TDelete) error {
	if err := s.enter(ctx, "deleteSingle"); err != nil {
		return err
	}
	defer s.c.mu.Unlock()
	t, err := s.usable(name)
	if err != nil {
		return err
	}
	row := string(tdelete.Row)
	r, ok := t.rows[row]
	if !ok {
		return nil
	}
	if len(tdelete.Columns) == 0 {
		delete(t.rows, row)
		return nil
	}
	for _, col := range tdelete.Columns {
		fam := string(col.Family)
		if col.Qualifier == nil {
			delete(r, fam)
			continue
		}
		delete(r[fam], string(col.Qualifier))
		if len(r[fam]) == 0 {
			delete(r, fam)
		}
	}
	if len(r) == 0 {
		delete(t.rows, row)
	}
	return nil
}

func key(tn *hbase.TTableName) string {
	return string(utils.TableName(utils.NamespaceOf(tn.Ns), string(tn.Qualifier)))
}

func tableNotFound(tn *hbase.TTableName) error {
	return hbase.NewTIOError("org.apache.hadoop.hbase.TableNotFoundException: %s", key(tn))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
