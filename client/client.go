package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/challenai/hbdemo/thrift/hbase"
	"github.com/pkg/errors"
)

const (
	TransportHTTP     = "http"
	TransportFramed   = "framed"
	TransportBuffered = "buffered"

	ProtocolBinary  = "binary"
	ProtocolCompact = "compact"

	DefaultTimeout = time.Second * 10

	bufferSize = 8192
)

// http Header attached to HBase client
// for example, some cloud service provider HBase instances need some authrization headers.
type Header struct {
	Key, Value string
}

// RoundTripper adds Headers to every request before handing it to Base,
// or to http.DefaultTransport when Base is nil.
type RoundTripper struct {
	Headers []Header
	Base    http.RoundTripper
}

// RoundTrip implemnt http RoundTripper interface
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for _, header := range rt.Headers {
		req.Header.Add(header.Key, header.Value)
	}
	base := rt.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// Options describes how to reach the thrift gateways of a cluster.
type Options struct {
	// Endpoints are tried in order. Socket transports take host:port,
	// the http transport takes a URL (http:// is assumed when missing).
	Endpoints []string
	Transport string
	Protocol  string
	Timeout   time.Duration
	Headers   []Header
}

// Conn is an open gateway connection. It can be shared between goroutines.
type Conn struct {
	*hbase.THBaseServiceClient
	Endpoint string
	trans    thrift.TTransport
}

func (c *Conn) Close() error {
	if c.trans == nil {
		return nil
	}
	return c.trans.Close()
}

// Dial connects to the first endpoint that accepts the connection.
func Dial(ctx context.Context, opts Options) (*Conn, error) {
	if len(opts.Endpoints) == 0 {
		return nil, errors.New("no hbase thrift endpoint configured")
	}
	var failures []string
	for _, ep := range opts.Endpoints {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "dial hbase thrift gateway")
		}
		conn, err := dialEndpoint(ep, opts)
		if err == nil {
			return conn, nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", ep, err))
	}
	return nil, errors.Errorf("all hbase thrift endpoints failed: %s", strings.Join(failures, "; "))
}

func dialEndpoint(endpoint string, opts Options) (*Conn, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	conf := &thrift.TConfiguration{
		ConnectTimeout: timeout,
		SocketTimeout:  timeout,
	}
	trans, err := newTransport(endpoint, opts, conf)
	if err != nil {
		return nil, err
	}
	if err := trans.Open(); err != nil {
		return nil, err
	}
	var pf thrift.TProtocolFactory
	switch opts.Protocol {
	case "", ProtocolBinary:
		pf = thrift.NewTBinaryProtocolFactoryConf(conf)
	case ProtocolCompact:
		pf = thrift.NewTCompactProtocolFactoryConf(conf)
	default:
		trans.Close()
		return nil, errors.Errorf("unknown thrift protocol %q", opts.Protocol)
	}
	thriftClient := thrift.NewTStandardClient(pf.GetProtocol(trans), pf.GetProtocol(trans))
	return &Conn{
		THBaseServiceClient: hbase.NewTHBaseServiceClient(&lockedClient{c: thriftClient}),
		Endpoint:            endpoint,
		trans:               trans,
	}, nil
}

func newTransport(endpoint string, opts Options, conf *thrift.TConfiguration) (thrift.TTransport, error) {
	switch opts.Transport {
	case "", TransportHTTP:
		addr := endpoint
		if !strings.Contains(addr, "://") {
			addr = "http://" + addr
		}
		httpClient := http.Client{
			Transport: &RoundTripper{
				Headers: opts.Headers,
			},
			Timeout: conf.ConnectTimeout,
		}
		return thrift.NewTHttpClientWithOptions(addr, thrift.THttpClientOptions{Client: &httpClient})
	case TransportFramed:
		return thrift.NewTFramedTransportConf(thrift.NewTSocketConf(endpoint, conf), conf), nil
	case TransportBuffered:
		return thrift.NewTBufferedTransport(thrift.NewTSocketConf(endpoint, conf), bufferSize), nil
	}
	return nil, errors.Errorf("unknown thrift transport %q", opts.Transport)
}

// lockedClient serialises calls: a thrift protocol pair carries one
// request/response exchange at a time.
type lockedClient struct {
	mu sync.Mutex
	c  thrift.TClient
}

func (l *lockedClient) Call(ctx context.Context, method string, args, result thrift.TStruct) (thrift.ResponseMeta, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Call(ctx, method, args, result)
}
