package db

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

type txKey struct{}

type Datastore struct {
	db     *gorm.DB
	driver Driver
}

var datastore *Datastore

func dialector(conf *Config) (gorm.Dialector, error) {
	switch conf.Driver {
	case DriverPostgres, "":
		dsn := conf.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
				conf.Host, conf.User, conf.PW, conf.DBName, conf.Port)
		}
		return postgres.Open(dsn), nil
	case DriverMySQL:
		dsn := conf.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				conf.User, conf.PW, conf.Host, conf.Port, conf.DBName)
		}
		return mysql.Open(dsn), nil
	case DriverSQLite:
		dsn := conf.DSN
		if dsn == "" {
			dsn = conf.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", conf.Driver)
	}
}

func NewDatastore(ctx context.Context, conf *Config) (*Datastore, error) {
	d, err := dialector(conf)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(conf.LogConf),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := conf.MaxOpenConns
	if conf.Driver == DriverSQLite && maxOpen == 0 {
		maxOpen = 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if conf.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Datastore{db: gdb, driver: conf.Driver}, nil
}

// Init 初始化全局数据库连接
func Init(ctx context.Context, conf *Config) error {
	ds, err := NewDatastore(ctx, conf)
	if err != nil {
		logger.Errorf(ctx, "init database driver: %s err: %+v", conf.Driver, err)
		return err
	}
	datastore = ds
	return nil
}

func Close(ctx context.Context) {
	if datastore == nil {
		return
	}
	sqlDB, err := datastore.db.DB()
	if err != nil {
		logger.Errorf(ctx, "get sql db err: %+v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Errorf(ctx, "close database err: %+v", err)
	}
	datastore = nil
}

func DB() *Datastore {
	return datastore
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

func (d *Datastore) Driver() Driver {
	return d.driver
}

// DBWithContext returns the transaction bound to ctx, or the root connection.
func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn in a transaction, nested calls join the outer one.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
