package storeconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dogmatiq/storagekit/driver/aws/dynamodb"
	"github.com/dogmatiq/storagekit/driver/leveldb"
	"github.com/dogmatiq/storagekit/driver/memory"
	"github.com/dogmatiq/storagekit/driver/postgres"
	"github.com/dogmatiq/storagekit/internal/telemetry/instrumentedkv"
	"github.com/dogmatiq/storagekit/kv"

	_ "github.com/jackc/pgx/v4/stdlib" // registers the "pgx" database/sql driver
)

// UnsupportedSchemeError is returned when a DSN's scheme does not name a
// known driver.
type UnsupportedSchemeError struct {
	Scheme string
}

func (e UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported key/value store DSN scheme: %q", e.Scheme)
}

// Open opens the store described by c.
//
// The returned close function releases any resources held by the driver. The
// store must not be used after it is called.
func (c Config) Open(ctx context.Context) (kv.Store, func() error, error) {
	if c.DSN == nil {
		return nil, nil, ErrNoDSN
	}

	name := c.Name
	if name == "" {
		name = "default"
	}

	var (
		next   kv.Store
		closer = func() error { return nil }
		err    error
	)

	switch c.DSN.Scheme {
	case "memory":
		next = &memory.Store{}

	case "leveldb":
		next, closer, err = openLevelDB(c)

	case "postgres", "postgresql":
		next, closer, err = openPostgres(ctx, c, name)

	case "dynamodb":
		next, err = openDynamoDB(ctx, c, name)

	default:
		err = UnsupportedSchemeError{c.DSN.Scheme}
	}

	if err != nil {
		return nil, nil, err
	}

	return &instrumentedkv.Store{
		Next:      next,
		Telemetry: c.Telemetry,
	}, closer, nil
}

// openLevelDB opens a DSN of the form "leveldb:///path/to/dir" or
// "leveldb:relative/dir".
func openLevelDB(c Config) (kv.Store, func() error, error) {
	path := c.DSN.Path
	if path == "" {
		path = c.DSN.Opaque
	}

	if path == "" {
		return nil, nil, fmt.Errorf("leveldb DSN must contain a path: %s", c.DSN)
	}

	s, err := leveldb.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open leveldb database: %w", err)
	}

	return s, s.DB.Close, nil
}

// openPostgres opens a standard PostgreSQL connection URL using the pgx
// driver and creates the schema if necessary.
func openPostgres(ctx context.Context, c Config, name string) (kv.Store, func() error, error) {
	db, err := sql.Open("pgx", c.DSN.String())
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open postgres database: %w", err)
	}

	if err := postgres.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("unable to create postgres schema: %w", err)
	}

	return &postgres.Store{DB: db, Name: name}, db.Close, nil
}

// openDynamoDB opens a DSN of the form "dynamodb://<table>".
//
// The optional "region" and "endpoint" query parameters override the AWS
// configuration loaded from the environment. If "create" is "true" the table is
// created if it does not already exist.
func openDynamoDB(ctx context.Context, c Config, name string) (kv.Store, error) {
	table := c.DSN.Host
	if table == "" {
		return nil, fmt.Errorf("dynamodb DSN must contain a table name: %s", c.DSN)
	}

	q := c.DSN.Query()

	var options []func(*config.LoadOptions) error

	if region := q.Get("region"); region != "" {
		options = append(options, config.WithRegion(region))
	}

	if endpoint := q.Get("endpoint"); endpoint != "" {
		options = append(
			options,
			config.WithEndpointResolverWithOptions(
				aws.EndpointResolverWithOptionsFunc(
					func(service, region string, _ ...any) (aws.Endpoint, error) {
						return aws.Endpoint{URL: endpoint}, nil
					},
				),
			),
		)
	}

	cfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS configuration: %w", err)
	}

	client := awsdynamodb.NewFromConfig(cfg)

	if q.Get("create") == "true" {
		if err := dynamodb.CreateTable(ctx, client, table); err != nil {
			return nil, fmt.Errorf("unable to create dynamodb table: %w", err)
		}
	}

	return &dynamodb.Store{
		Client: client,
		Table:  table,
		Name:   name,
	}, nil
}
