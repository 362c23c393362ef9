package hbdemo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/challenai/hbdemo/codec"
	"github.com/challenai/hbdemo/logger"
	"github.com/challenai/hbdemo/thrift/hbase"
	"github.com/challenai/hbdemo/utils"
	"github.com/pkg/errors"
)

// AdminService is the administrative part of THBaseService.
type AdminService interface {
	ListNamespaceDescriptors(ctx context.Context) ([]*hbase.TNamespaceDescriptor, error)
	CreateNamespace(ctx context.Context, namespaceDesc *hbase.TNamespaceDescriptor) error
	TableExists(ctx context.Context, tableName *hbase.TTableName) (bool, error)
	GetTableDescriptor(ctx context.Context, table *hbase.TTableName) (*hbase.TTableDescriptor, error)
	DisableTable(ctx context.Context, tableName *hbase.TTableName) error
	DeleteTable(ctx context.Context, tableName *hbase.TTableName) error
	CreateTable(ctx context.Context, desc *hbase.TTableDescriptor, splitKeys [][]byte) error
}

// DataService is the row access part of THBaseService.
type DataService interface {
	Get(ctx context.Context, table []byte, tget *hbase.TGet) (*hbase.TResult_, error)
	PutMultiple(ctx context.Context, table []byte, tputs []*hbase.TPut) error
	DeleteSingle(ctx context.Context, table []byte, tdelete *hbase.TDelete) error
}

// Handle is one open connection to the cluster.
type Handle interface {
	AdminService
	DataService
	io.Closer
}

// Role tells a DialFunc which handle the facade is opening.
type Role int

const (
	RoleData Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin handle"
	}
	return "data connection"
}

// DialFunc opens a handle to the cluster.
type DialFunc func(ctx context.Context, role Role) (Handle, error)

type state int

const (
	stateUninitialized state = iota
	stateReady
	stateFailed
	stateClosed
)

// Facade mediates every interaction with the cluster: namespace and table
// lifecycle plus single row reads, writes and deletes. It owns a data
// connection and an administrative handle, opened by Open and released by
// Close. A Facade is safe for concurrent use; create and drop sequences on
// the same namespace or table are serialised.
type Facade struct {
	mu      sync.RWMutex
	state   state
	initErr error
	conn    Handle
	admin   Handle

	dial    DialFunc
	cdc     codec.Codec
	log     logger.Logger
	timeout time.Duration
	metrics *Metrics
	locks   *keyedMutex
}

type Option func(*Facade)

func WithCodec(c codec.Codec) Option {
	return func(f *Facade) { f.cdc = c }
}

func WithLogger(l logger.Logger) Option {
	return func(f *Facade) { f.log = l }
}

// WithTimeout bounds every operation, including Open. Zero leaves the
// caller's context as the only limit.
func WithTimeout(d time.Duration) Option {
	return func(f *Facade) { f.timeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(f *Facade) { f.metrics = m }
}

// New creates an unopened facade that connects through dial.
func New(dial DialFunc, opts ...Option) *Facade {
	f := &Facade{
		dial:  dial,
		cdc:   &codec.DefaultCodec{},
		log:   logger.NewStdLogger(),
		locks: newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.timeout)
}

// Open dials the data connection and then the admin handle. A failed Open
// is final: the facade stays unusable and every later call reports a
// ConnectivityError.
func (f *Facade) Open(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { f.metrics.observe(opOpen, start, err) }()

	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case stateReady:
		return &ConnectivityError{Op: opOpen, Target: "cluster", Err: ErrAlreadyOpen}
	case stateFailed:
		return &ConnectivityError{Op: opOpen, Target: "cluster", Err: f.initErr}
	case stateClosed:
		return &ConnectivityError{Op: opOpen, Target: "cluster", Err: ErrClosed}
	}

	if f.dial == nil {
		f.log.Errorf("hbase client initialization failed: %v", ErrNoDialer)
		return f.failOpen(RoleData, ErrNoDialer)
	}
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	conn, err := f.dial(ctx, RoleData)
	if err != nil {
		f.log.Errorf("hbase client initialization failed, open %s: %v", RoleData, err)
		return f.failOpen(RoleData, err)
	}
	admin, err := f.dial(ctx, RoleAdmin)
	if err != nil {
		f.log.Errorf("hbase client initialization failed, open %s: %v", RoleAdmin, err)
		f.release(RoleData, conn)
		return f.failOpen(RoleAdmin, err)
	}
	f.conn, f.admin, f.state = conn, admin, stateReady
	f.log.Infof("hbase client initialized")
	return nil
}

func (f *Facade) failOpen(role Role, err error) error {
	f.state = stateFailed
	f.initErr = errors.Wrapf(err, "open %s", role)
	return &ConnectivityError{Op: opOpen, Target: "cluster", Err: f.initErr}
}

func (f *Facade) handle(op, target string, role Role) (Handle, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	switch f.state {
	case stateReady:
		if role == RoleAdmin {
			return f.admin, nil
		}
		return f.conn, nil
	case stateFailed:
		return nil, &ConnectivityError{Op: op, Target: target, Err: errors.Wrap(ErrNotOpen, f.initErr.Error())}
	case stateClosed:
		return nil, &ConnectivityError{Op: op, Target: target, Err: ErrClosed}
	}
	return nil, &ConnectivityError{Op: op, Target: target, Err: ErrNotOpen}
}

// Close releases the admin handle and the data connection. Each is
// released even if the other fails; failures are logged, never returned.
// Close is safe on a facade that was never opened and may be called twice.
func (f *Facade) Close() {
	f.mu.Lock()
	admin, conn := f.admin, f.conn
	f.admin, f.conn = nil, nil
	wasClosed := f.state == stateClosed
	f.state = stateClosed
	f.mu.Unlock()

	if wasClosed {
		return
	}
	f.release(RoleAdmin, admin)
	f.release(RoleData, conn)
}

func (f *Facade) release(role Role, h Handle) {
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			f.log.Errorf("close %s panicked: %v", role, r)
		}
	}()
	if err := h.Close(); err != nil {
		f.log.Errorf("close %s failed: %v", role, err)
	}
}

// EnsureNamespace creates namespace unless it is already listed.
func (f *Facade) EnsureNamespace(ctx context.Context, namespace string) (err error) {
	start := time.Now()
	defer func() { f.metrics.observe(opEnsureNamespace, start, err) }()

	if !validIdentifier(namespace, "") {
		return &SchemaError{Op: opEnsureNamespace, Target: namespace, Err: errors.Wrapf(ErrInvalidName, "namespace %q", namespace)}
	}
	admin, err := f.handle(opEnsureNamespace, namespace, RoleAdmin)
	if err != nil {
		return err
	}
	unlock := f.locks.lock("namespace/" + namespace)
	defer unlock()
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	exists, err := f.namespaceExists(ctx, admin, namespace)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := admin.CreateNamespace(ctx, &hbase.TNamespaceDescriptor{Name: namespace}); err != nil {
		f.log.Errorf("create namespace %s failed: %v", namespace, err)
		return adminError(opEnsureNamespace, namespace, err)
	}
	f.log.Infof("namespace %s created", namespace)
	return nil
}

func (f *Facade) namespaceExists(ctx context.Context, admin AdminService, namespace string) (bool, error) {
	descs, err := admin.ListNamespaceDescriptors(ctx)
	if err != nil {
		f.log.Errorf("list namespaces failed: %v", err)
		return false, adminError(opEnsureNamespace, namespace, err)
	}
	for _, d := range descs {
		if d.GetName() == namespace {
			f.log.Infof("namespace %s exists", namespace)
			return true, nil
		}
	}
	f.log.Infof("namespace %s does not exist", namespace)
	return false, nil
}

// EnsureTable makes sure namespace:table exists with the given column
// families. What happens to an existing table depends on policy; see
// CreateIfAbsent and Recreate.
func (f *Facade) EnsureTable(ctx context.Context, namespace, table string, policy TablePolicy, families ...string) (err error) {
	start := time.Now()
	defer func() { f.metrics.observe(opEnsureTable, start, err) }()

	target := string(utils.TableName(namespace, table))
	if err := validateTable(namespace, table, families); err != nil {
		return &SchemaError{Op: opEnsureTable, Target: target, Err: err}
	}
	admin, err := f.handle(opEnsureTable, target, RoleAdmin)
	if err != nil {
		return err
	}
	unlock := f.locks.lock("table/" + target)
	defer unlock()
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	tn := &hbase.TTableName{Ns: []byte(utils.NamespaceOf([]byte(namespace))), Qualifier: []byte(table)}
	exists, err := admin.TableExists(ctx, tn)
	if err != nil {
		f.log.Errorf("check table %s failed: %v", target, err)
		return adminError(opEnsureTable, target, err)
	}
	if exists {
		if policy != Recreate {
			return f.checkFamilies(ctx, admin, tn, target, families)
		}
		if err := f.dropTable(ctx, admin, tn, target); err != nil {
			return err
		}
		f.log.Infof("table %s existed and was dropped", target)
	}

	desc := &hbase.TTableDescriptor{TableName: tn}
	for _, fam := range families {
		desc.Columns = append(desc.Columns, &hbase.TColumnFamilyDescriptor{Name: []byte(fam)})
	}
	if err := admin.CreateTable(ctx, desc, nil); err != nil {
		f.log.Errorf("create table %s failed: %v", target, err)
		return adminError(opEnsureTable, target, err)
	}
	f.log.Infof("table %s created with families %s", target, strings.Join(families, ","))
	return nil
}

func (f *Facade) dropTable(ctx context.Context, admin AdminService, tn *hbase.TTableName, target string) error {
	if err := admin.DisableTable(ctx, tn); err != nil {
		var ioErr *hbase.TIOError
		if !errors.As(err, &ioErr) || !strings.Contains(ioErr.GetMessage(), "TableNotEnabledException") {
			f.log.Errorf("disable table %s failed: %v", target, err)
			return adminError(opEnsureTable, target, err)
		}
		f.log.Infof("table %s is already disabled", target)
	}
	if err := admin.DeleteTable(ctx, tn); err != nil {
		f.log.Errorf("delete table %s failed: %v", target, err)
		return adminError(opEnsureTable, target, err)
	}
	return nil
}

func (f *Facade) checkFamilies(ctx context.Context, admin AdminService, tn *hbase.TTableName, target string, families []string) error {
	desc, err := admin.GetTableDescriptor(ctx, tn)
	if err != nil {
		f.log.Errorf("describe table %s failed: %v", target, err)
		return adminError(opEnsureTable, target, err)
	}
	declared := map[string]bool{}
	for _, c := range desc.Columns {
		declared[string(c.Name)] = true
	}
	var missing []string
	for _, fam := range families {
		if !declared[fam] {
			missing = append(missing, fam)
		}
	}
	if len(missing) > 0 {
		f.log.Warnf("table %s exists without families %v", target, missing)
		return &SchemaError{Op: opEnsureTable, Target: target, Err: errors.Wrapf(ErrFamilyMismatch, "missing %s", strings.Join(missing, ","))}
	}
	f.log.Infof("table %s exists", target)
	return nil
}

// WriteColumns puts every qualifier/value pair into family of rowKey as a
// single batch. The batch is reported as a whole: on error the caller must
// assume none of it was applied and resubmit all of it.
func (f *Facade) WriteColumns(ctx context.Context, namespace, table, rowKey, family string, values []ColumnValue) (err error) {
	start := time.Now()
	defer func() { f.metrics.observe(opWriteColumns, start, err) }()

	tableName := utils.TableName(namespace, table)
	target := fmt.Sprintf("%s/%s", tableName, rowKey)
	if rowKey == "" {
		return &DataOperationError{Op: opWriteColumns, Target: target, Err: ErrEmptyRowKey}
	}
	if !validFamily(family) {
		return &SchemaError{Op: opWriteColumns, Target: target, Err: errors.Wrapf(ErrInvalidName, "column family %q", family)}
	}
	conn, err := f.handle(opWriteColumns, target, RoleData)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		f.log.Debugf("nothing to write into %s family %s", target, family)
		return nil
	}
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	puts := make([]*hbase.TPut, 0, len(values))
	for _, v := range values {
		puts = append(puts, &hbase.TPut{
			Row: []byte(rowKey),
			ColumnValues: []*hbase.TColumnValue{{
				Family:    []byte(family),
				Qualifier: []byte(v.Qualifier),
				Value:     f.cdc.EncodeString(v.Value),
			}},
		})
	}
	if err := conn.PutMultiple(ctx, tableName, puts); err != nil {
		f.log.Errorf("write %d columns of family %s into %s failed: %v", len(puts), family, target, err)
		return dataError(opWriteColumns, target, err)
	}
	f.log.Infof("wrote %d columns of family %s into %s", len(puts), family, target)
	return nil
}

// ReadRow returns every cell of rowKey in the order the server sends them.
// A row that does not exist yields an empty slice and no error.
func (f *Facade) ReadRow(ctx context.Context, namespace, table, rowKey string) (cells []Cell, err error) {
	start := time.Now()
	defer func() { f.metrics.observe(opReadRow, start, err) }()

	tableName := utils.TableName(namespace, table)
	target := fmt.Sprintf("%s/%s", tableName, rowKey)
	if rowKey == "" {
		return nil, &DataOperationError{Op: opReadRow, Target: target, Err: ErrEmptyRowKey}
	}
	conn, err := f.handle(opReadRow, target, RoleData)
	if err != nil {
		return nil, err
	}
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	result, err := conn.Get(ctx, tableName, &hbase.TGet{Row: []byte(rowKey)})
	if err != nil {
		f.log.Errorf("read %s failed: %v", target, err)
		return nil, dataError(opReadRow, target, err)
	}
	cells = make([]Cell, 0, len(result.GetColumnValues()))
	for _, cv := range result.GetColumnValues() {
		value, err := f.cdc.DecodeString(cv.GetValue())
		if err != nil {
			f.log.Errorf("decode %s %s:%s failed: %v", target, cv.Family, cv.Qualifier, err)
			return nil, &DataOperationError{Op: opReadRow, Target: target, Err: errors.Wrapf(err, "column %s:%s", cv.Family, cv.Qualifier)}
		}
		cells = append(cells, Cell{
			Family:    string(cv.Family),
			Qualifier: string(cv.Qualifier),
			Value:     value,
		})
	}
	f.log.Infof("read %d cells from %s", len(cells), target)
	return cells, nil
}

// DeleteRow removes every cell of rowKey. Deleting a missing row succeeds.
func (f *Facade) DeleteRow(ctx context.Context, namespace, table, rowKey string) (err error) {
	start := time.Now()
	defer func() { f.metrics.observe(opDeleteRow, start, err) }()

	tableName := utils.TableName(namespace, table)
	target := fmt.Sprintf("%s/%s", tableName, rowKey)
	if rowKey == "" {
		return &DataOperationError{Op: opDeleteRow, Target: target, Err: ErrEmptyRowKey}
	}
	conn, err := f.handle(opDeleteRow, target, RoleData)
	if err != nil {
		return err
	}
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	if err := conn.DeleteSingle(ctx, tableName, &hbase.TDelete{Row: []byte(rowKey)}); err != nil {
		f.log.Errorf("delete %s failed: %v", target, err)
		return dataError(opDeleteRow, target, err)
	}
	f.log.Infof("deleted row %s", target)
	return nil
}

// validIdentifier accepts the characters HBase allows in namespace names,
// plus any in extra.
func validIdentifier(s, extra string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		case strings.ContainsRune(extra, r):
		default:
			return false
		}
	}
	return true
}

func validFamily(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") {
		return false
	}
	for _, r := range s {
		if r == ':' || r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

func validateTable(namespace, table string, families []string) error {
	if namespace != "" && !validIdentifier(namespace, "") {
		return errors.Wrapf(ErrInvalidName, "namespace %q", namespace)
	}
	if !validIdentifier(table, "-.") || strings.HasPrefix(table, ".") || strings.HasPrefix(table, "-") {
		return errors.Wrapf(ErrInvalidName, "table %q", table)
	}
	if len(families) == 0 {
		return ErrNoFamilies
	}
	seen := map[string]bool{}
	for _, fam := range families {
		if !validFamily(fam) {
			return errors.Wrapf(ErrInvalidName, "column family %q", fam)
		}
		if seen[fam] {
			return errors.Wrapf(ErrInvalidName, "column family %q declared twice", fam)
		}
		seen[fam] = true
	}
	return nil
}
