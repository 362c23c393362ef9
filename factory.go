package hbdemo

import (
	"context"

	"github.com/challenai/hbdemo/client"
)

// ThriftDialer opens every handle against the thrift gateways in opts.
func ThriftDialer(opts client.Options) DialFunc {
	return func(ctx context.Context, _ Role) (Handle, error) {
		conn, err := client.Dial(ctx, opts)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// NewHBase create a new facade over the HBase thrift gateways in opts,
// bounded by opts.Timeout unless an Option overrides it.
func NewHBase(opts client.Options, fopts ...Option) *Facade {
	all := append([]Option{WithTimeout(opts.Timeout)}, fopts...)
	return New(ThriftDialer(opts), all...)
}
