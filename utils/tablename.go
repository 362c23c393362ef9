package utils

import (
	"bytes"
	"fmt"
)

// DefaultNamespace is where HBase puts tables created without a namespace.
const DefaultNamespace = "default"

// TableName returns the fully qualified name namespace:table used by the
// thrift gateway for data calls.
func TableName(namespace, table string) []byte {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return []byte(fmt.Sprintf("%s:%s", namespace, table))
}

// SplitTableName parses namespace:table. A name without a namespace lives
// in the default namespace.
func SplitTableName(name []byte) (namespace, table string) {
	idx := bytes.IndexByte(name, ':')
	if idx < 0 {
		return DefaultNamespace, string(name)
	}
	if idx == 0 {
		return DefaultNamespace, string(name[1:])
	}
	return string(name[:idx]), string(name[idx+1:])
}

// NamespaceOf returns ns, falling back to the default namespace when empty.
func NamespaceOf(ns []byte) string {
	if len(ns) == 0 {
		return DefaultNamespace
	}
	return string(ns)
}
