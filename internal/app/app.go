// Package app wires the stores, the reference synchronizer and the resolver
// service from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacentio/pawtrail/docstore"
	"github.com/jacentio/pawtrail/graph"
	"github.com/jacentio/pawtrail/internal/config"
	"github.com/jacentio/pawtrail/internal/metrics"
	"github.com/jacentio/pawtrail/refsync"
	"github.com/jacentio/pawtrail/sqlstore"
)

// App holds the wired components. Close releases the relational connection.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Walkers *docstore.Store
	Animals *sqlstore.Store
	Sync    *refsync.Synchronizer
	Service *graph.Service

	// Dynamo is the client backing Walkers; it also serves table management.
	Dynamo docstore.API
}

type options struct {
	dynamo     docstore.API
	logger     *slog.Logger
	registerer prometheus.Registerer
}

// Option customizes New.
type Option func(*options)

// WithDynamoClient uses client instead of building one from the AWS config.
func WithDynamoClient(client docstore.API) Option {
	return func(o *options) { o.dynamo = client }
}

// WithLogger overrides the logger built from the logging section.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRegisterer registers the store call counters with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// New builds an App. The relational schema is applied on open.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = NewLogger(os.Stderr, cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	client := o.dynamo
	if client == nil {
		c, err := NewDynamoClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		client = c
	}

	m := metrics.New(o.registerer)

	dialect, err := sqlstore.DialectFor(cfg.SQL.Driver)
	if err != nil {
		return nil, err
	}
	animals, err := sqlstore.Open(ctx, dialect, cfg.SQL.DSN, m)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect.Name, err)
	}

	walkers := docstore.NewWithMetrics(client, cfg.Docstore(), m)
	sync := refsync.New(animals, walkers, logger)

	logger.Debug("stores ready",
		"table", walkers.TableName(),
		"dialect", dialect.Name,
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		Walkers: walkers,
		Animals: animals,
		Sync:    sync,
		Service: graph.NewService(walkers, animals, sync, cfg.Graph(), logger),
		Dynamo:  client,
	}, nil
}

// Close closes the relational store.
func (a *App) Close() error {
	return a.Animals.Close()
}

// LogStoreCalls logs the cumulative store call counters at debug level.
func (a *App) LogStoreCalls(ctx context.Context) {
	a.Metrics.LogTotals(ctx, a.Logger)
}

// NewDynamoClient builds a DynamoDB client from the default AWS credential
// chain, honouring the region, profile and endpoint overrides.
func NewDynamoClient(ctx context.Context, cfg config.DynamoDBConfig) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewLogger builds a slog.Logger writing to w in the configured format.
func NewLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}
