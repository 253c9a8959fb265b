package config

import (
	"net/http"

	"es-bug-demo/search/filters"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// ElasticsearchOptions configures one client built by NewElasticsearchClient.
type ElasticsearchOptions struct {
	Address  string
	Username string
	Password string

	// Name labels the client's metrics, e.g. "default" or "workaround".
	Name string

	// Workaround attaches the 4xx status filter to the transport.
	Workaround bool

	// Debug logs every round trip, bodies included, through Logger.
	Debug bool

	// Logger receives debug round trips; nil means the package Logger.
	Logger *zap.Logger

	// Transport is the innermost round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// NewElasticsearchClient builds a client bound to opts.Address. Nothing is
// sent until the first request; retries are disabled so every call is a
// single attempt.
func NewElasticsearchClient(opts ElasticsearchOptions) (*elasticsearch.Client, error) {
	address := opts.Address
	if address == "" {
		address = "http://localhost:9200"
	}
	name := opts.Name
	if name == "" {
		name = "default"
	}

	var transport http.RoundTripper = filters.NewMetricsFilter(name, opts.Transport)
	if opts.Workaround {
		transport = filters.NewStatusFilter(transport)
	}

	cfg := elasticsearch.Config{
		Addresses:    []string{address},
		Username:     opts.Username,
		Password:     opts.Password,
		Transport:    transport,
		DisableRetry: true,
	}
	if opts.Debug {
		logger := opts.Logger
		if logger == nil {
			logger = Logger
		}
		cfg.Logger = NewTransportLogger(logger.With(zap.String("client", name)), true)
	}

	return elasticsearch.NewClient(cfg)
}

// ElasticsearchOptionsFromConfig returns options for the default and the
// workaround client, in that order.
func ElasticsearchOptionsFromConfig(c AppConfig) (ElasticsearchOptions, ElasticsearchOptions) {
	base := ElasticsearchOptions{
		Address:  c.ElasticsearchAddress,
		Username: c.ElasticsearchUsername,
		Password: c.ElasticsearchPassword,
		Debug:    c.ElasticsearchDebug,
	}

	def := base
	def.Name = "default"

	workaround := base
	workaround.Name = "workaround"
	workaround.Workaround = true

	return def, workaround
}
