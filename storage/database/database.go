package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"DelayWatch/config"
	"DelayWatch/pkg/logger"
)

// 两个独立连接：warehouse 是上游 ETL 维护的分析副本，本服务只读；
// treatment 是处理工单事务库，本服务可写并负责迁移。

var (
	warehouseDB *gorm.DB
	treatmentDB *gorm.DB
	dbOnce      sync.Once
	dbErr       error
)

func Init() error {
	dbOnce.Do(func() {
		gormCfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			PrepareStmt:                              true,
			SkipDefaultTransaction:                   true,
		}

		warehouseDB, dbErr = openDB(config.Cfg.GetWarehouseDSN(), gormCfg,
			config.Cfg.WarehouseMaxIdle, config.Cfg.WarehouseMaxOpen)
		if dbErr != nil {
			logger.Logger.Error("Failed to open warehouse database", zap.Error(dbErr))
			return
		}

		treatmentDB, dbErr = openDB(config.Cfg.GetTreatmentDSN(), gormCfg,
			config.Cfg.TreatmentMaxIdle, config.Cfg.TreatmentMaxOpen)
		if dbErr != nil {
			logger.Logger.Error("Failed to open treatment database", zap.Error(dbErr))
			return
		}

		// 只迁移本服务拥有的表，数仓宽表归 ETL 管
		if err := Migrate(); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to run treatment store migration", zap.Error(err))
			return
		}

		logger.Logger.Info("Databases initialized successfully")
	})

	return dbErr
}

func openDB(dsn string, gormCfg *gorm.Config, maxIdle, maxOpen int) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	configureConnectionPool(sqlDB, maxIdle, maxOpen)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return gormDB, nil
}

// Warehouse 延迟订单数仓只读连接
func Warehouse() *gorm.DB {
	return warehouseDB
}

// Treatment 处理工单事务库连接
func Treatment() *gorm.DB {
	return treatmentDB
}

func Close(ctx context.Context) error {
	for _, db := range []*gorm.DB{warehouseDB, treatmentDB} {
		if db == nil {
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		done := make(chan error, 1)
		go func() {
			done <- sqlDB.Close()
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func configureConnectionPool(sqlDB *sql.DB, maxIdle, maxOpen int) {
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
