package database

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog/log"
)

// NewPersister builds the catalog backend selected by DB_TYPE. The returned
// close function releases whatever the backend holds open.
func NewPersister(ctx context.Context, c map[string]string) (catalog.Persister, func() error, error) {
	noop := func() error { return nil }

	switch Type(c) {
	case TypeMemory:
		log.Warn().Msg("DB_TYPE=memory: catalog changes will not survive a restart")
		return catalog.MemoryPersister{}, noop, nil

	case TypePostgres, TypeSupabase:
		db, err := Open(c)
		if err != nil {
			return nil, noop, err
		}
		if config.GetBool(c, "DB_AUTO_MIGRATE", true) {
			if err := Migrate(db); err != nil {
				return nil, noop, errs.NewDatabaseError("migrate", "catalog tables", err)
			}
		}
		d := New(db)
		log.Info().Str("type", Type(c)).Msg("Connected to catalog database")
		return d, d.Close, nil

	case TypeS3:
		bucket := config.GetString(c, "CATALOG_S3_BUCKET", "")
		if bucket == "" {
			return nil, noop, errs.NewEnvironmentVariableError("CATALOG_S3_BUCKET")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, errs.NewConfigError("aws", err)
		}
		key := config.GetString(c, "CATALOG_S3_KEY", "catalog.json")
		log.Info().Str("bucket", bucket).Str("key", key).Msg("Using S3 catalog document")
		return NewS3Document(s3.NewFromConfig(awsCfg), bucket, key), noop, nil

	default:
		return nil, noop, errs.NewConfigError("DB_TYPE", errs.ErrConfigInvalid)
	}
}
