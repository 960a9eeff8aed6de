package database

import (
	"fmt"

	"DelayWatch/internal/model"
)

// Migrate 迁移处理工单事务库表结构。
// delayed_orders 宽表属于数仓，由上游 ETL 建表维护，这里不碰。
func Migrate() error {
	if treatmentDB == nil {
		return fmt.Errorf("treatment database is not initialized")
	}

	return treatmentDB.AutoMigrate(
		&model.Treatment{},
		&model.TreatmentHistory{},
	)
}
