// Package remote is the relational backend. It speaks gorm over either a pgx
// pool (Postgres, production) or a pure-Go sqlite file (tests and local runs).
//
// The schema created by AutoMigrate is meant for development and tests; a
// production database is expected to already carry the same tables.
package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
)

// Dialect names the SQL flavour behind a Store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Options tunes how a Store is opened.
type Options struct {
	// Tracing installs the OpenTelemetry gorm plugin.
	Tracing bool
	Logger  *slog.Logger
}

// Store implements repository.Backend on a gorm handle. It is safe for
// concurrent use.
type Store struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	pool    *pgxpool.Pool
	dialect Dialect
	logger  *slog.Logger
}

// models lists every table in load order.
var models = []any{
	&fandom.Profile{},
	&fandom.Season{},
	&fandom.Episode{},
	&fandom.Donation{},
	&fandom.OrgMember{},
	&fandom.Notice{},
	&fandom.Post{},
	&fandom.PostLike{},
	&fandom.Comment{},
	&fandom.Schedule{},
	&fandom.TimelineEvent{},
	&fandom.Signature{},
	&fandom.VipReward{},
	&fandom.VipImage{},
	&fandom.Media{},
	&fandom.LiveStatus{},
	&fandom.Banner{},
	&fandom.GuestbookEntry{},
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		NowFunc:                repository.Timestamp,
	}
}

// Open connects to Postgres through a pgx pool and hands the pool to gorm.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, err
	}
	s := &Store{db: db, sqlDB: sqlDB, pool: pool, dialect: DialectPostgres, logger: opts.Logger}
	if err := s.init(opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// OpenSQLite opens (or creates) a sqlite database file.
func OpenSQLite(path string, opts Options) (*Store, error) {
	connOpts := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?%s", path, connOpts)), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers; one connection avoids SQLITE_BUSY on concurrent writes.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	s := &Store{db: db, sqlDB: sqlDB, dialect: DialectSQLite, logger: opts.Logger}
	if err := s.init(opts); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(opts Options) error {
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if opts.Tracing {
		if err := s.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return err
		}
	}
	s.logger.Debug("remote store opened", "dialect", s.dialect)
	return nil
}

// Dialect reports which database the store talks to.
func (s *Store) Dialect() Dialect { return s.dialect }

// AutoMigrate creates or updates every table.
func (s *Store) AutoMigrate(ctx context.Context) error {
	for _, m := range models {
		if err := s.db.WithContext(ctx).AutoMigrate(m); err != nil {
			return errs.Backend("migrate", err)
		}
	}
	return nil
}

func tableName(m any) string {
	return m.(interface{ TableName() string }).TableName()
}

// Reset empties every table and restarts id sequences.
func (s *Store) Reset(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, tableName(m))
	}
	if s.dialect == DialectPostgres {
		if err := db.Exec("TRUNCATE TABLE " + strings.Join(names, ", ") + " RESTART IDENTITY").Error; err != nil {
			return errs.Backend("reset", err)
		}
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if err := tx.Exec("DELETE FROM " + name).Error; err != nil {
				return errs.Backend("reset", err)
			}
		}
		// sqlite_sequence only exists once an AUTOINCREMENT table has been written.
		_ = tx.Exec("DELETE FROM sqlite_sequence").Error
		return nil
	})
}

// Load inserts a dataset with its own ids and moves sequences past them.
func (s *Store) Load(ctx context.Context, ds fixture.Dataset) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insertAll(tx, ds.Profiles); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Seasons); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Episodes); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Donations); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Org); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Notices); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Posts); err != nil {
			return err
		}
		if err := insertAll(tx, ds.PostLikes); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Comments); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Schedules); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Timeline); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Signatures); err != nil {
			return err
		}
		if err := insertAll(tx, ds.VipRewards); err != nil {
			return err
		}
		if err := insertAll(tx, ds.VipImages); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Media); err != nil {
			return err
		}
		if err := insertAll(tx, ds.LiveStatus); err != nil {
			return err
		}
		if err := insertAll(tx, ds.Banners); err != nil {
			return err
		}
		return insertAll(tx, ds.Guestbook)
	})
	if err != nil {
		return errs.Backend("load", err)
	}
	if s.dialect != DialectPostgres {
		return nil
	}
	for _, m := range models[1:] {
		name := tableName(m)
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			name, name,
		)
		if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return errs.Backend("load", err)
		}
	}
	return nil
}

func insertAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 100).Error
}

// Close releases the database handle and, for Postgres, the pgx pool.
func (s *Store) Close() {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the database.
func (s *Store) Ready(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) Profiles() repository.Profiles         { return profileRepo{s} }
func (s *Store) Seasons() repository.Seasons           { return seasonRepo{s} }
func (s *Store) Episodes() repository.Episodes         { return episodeRepo{s} }
func (s *Store) Donations() repository.Donations       { return donationRepo{s} }
func (s *Store) Rankings() repository.Rankings         { return rankingRepo{s} }
func (s *Store) Posts() repository.Posts               { return postRepo{s} }
func (s *Store) Comments() repository.Comments         { return commentRepo{s} }
func (s *Store) Notices() repository.Notices           { return noticeRepo{s} }
func (s *Store) Schedules() repository.Schedules       { return scheduleRepo{s} }
func (s *Store) Timeline() repository.Timeline         { return timelineRepo{s} }
func (s *Store) Signatures() repository.Signatures     { return signatureRepo{s} }
func (s *Store) VipRewards() repository.VipRewards     { return rewardRepo{s} }
func (s *Store) VipImages() repository.VipImages       { return imageRepo{s} }
func (s *Store) Media() repository.Media               { return mediaRepo{s} }
func (s *Store) LiveStatus() repository.LiveStatus     { return liveRepo{s} }
func (s *Store) Banners() repository.Banners           { return bannerRepo{s} }
func (s *Store) Guestbook() repository.Guestbook       { return guestbookRepo{s} }
func (s *Store) Organization() repository.Organization { return orgRepo{s} }

func (s *Store) q(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

// one runs tx for a single row; no match is (nil, nil).
func one[T any](tx *gorm.DB, op string) (*T, error) {
	var row T
	err := tx.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Backend(op, err)
	}
	return &row, nil
}

// many runs tx and always returns a non-nil slice on success.
func many[T any](tx *gorm.DB, op string) ([]T, error) {
	out := []T{}
	if err := tx.Find(&out).Error; err != nil {
		return nil, errs.Backend(op, err)
	}
	return out, nil
}

// replace overwrites every column except id and created_at, then reads the row back.
func replace[T any](tx *gorm.DB, what string, id int64, row *T) (T, error) {
	var zero T
	res := tx.Model(new(T)).Where("id = ?", id).Select("*").Omit("id", "created_at").Updates(row)
	if res.Error != nil {
		return zero, errs.Backend("update "+what, res.Error)
	}
	if res.RowsAffected == 0 {
		return zero, errs.NotFound(what)
	}
	got, err := one[T](tx.Session(&gorm.Session{NewDB: true}).Where("id = ?", id), "update "+what)
	if err != nil {
		return zero, err
	}
	if got == nil {
		return zero, errs.NotFound(what)
	}
	return *got, nil
}

// remove hard-deletes one row by id.
func remove[T any](tx *gorm.DB, what string, id int64) error {
	res := tx.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return errs.Backend("delete "+what, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound(what)
	}
	return nil
}

// page counts tx, then reads one page of it in the given order.
func page[T any](tx *gorm.DB, op, order string, opts repository.PageOptions) (repository.Page[T], error) {
	base := tx.Session(&gorm.Session{})
	var total int64
	if err := base.Model(new(T)).Count(&total).Error; err != nil {
		return repository.Page[T]{}, errs.Backend(op, err)
	}
	opts = opts.Normalize()
	if opts.Beyond(total) {
		return repository.NewPage[T](nil, total, opts), nil
	}
	rows, err := many[T](base.Order(order).Offset(opts.Offset()).Limit(opts.Limit), op)
	if err != nil {
		return repository.Page[T]{}, err
	}
	return repository.NewPage(rows, total, opts), nil
}

// profileMap fetches the profiles behind ids.
func (s *Store) profileMap(ctx context.Context, ids []string) (map[string]fandom.Profile, error) {
	out := make(map[string]fandom.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := many[fandom.Profile](s.q(ctx).Where("id IN ?", ids), "profiles by id")
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}
