package database

import (
	"fmt"

	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/error/apperror"
	"property-http-service/internal/infrastructure/config"
)

// moveHistorySelect 搬迁记录视图的查询
const moveHistorySelect = `SELECT t.tenancy_id, tn.name AS tenant_name, a.apartment_number, p.name AS property_name,
	t.start_date AS move_in_date, t.end_date AS move_out_date,
	CASE WHEN t.active THEN 'Active' ELSE 'Inactive' END AS tenancy_status
FROM tenancies t
JOIN tenants tn ON tn.tenant_id = t.tenant_id
JOIN apartments a ON a.apartment_id = t.apartment_id
JOIN properties p ON p.property_id = a.property_id`

// tablesInDependencyOrder 被引用的表在前
func tablesInDependencyOrder() []interface{} {
	return []interface{}{
		&models.Property{},
		&models.Apartment{},
		&models.Tenant{},
		&models.Tenancy{},
	}
}

// Migrate 按迁移模式处理表结构
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case config.MigrationNone:
		return nil
	case config.MigrationDrop:
		return DropAndRecreate(db)
	case config.MigrationAuto, "":
		return AutoMigrate(db)
	default:
		return apperror.Migration("select mode", fmt.Errorf("unsupported migration mode %q", mode))
	}
}

// AutoMigrate 自动迁移所有模型（只添加新列和新表）并重建搬迁记录视图
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(tablesInDependencyOrder()...); err != nil {
		return apperror.Migration("auto migrate", err)
	}
	return createMoveHistoryView(db)
}

// DropAndRecreate 删除视图与所有表后重建
func DropAndRecreate(db *gorm.DB) error {
	if err := db.Exec("DROP VIEW IF EXISTS " + models.MoveHistoryView).Error; err != nil {
		return apperror.Migration("drop view", err)
	}

	tables := tablesInDependencyOrder()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return apperror.Migration("drop table", err)
		}
	}
	return AutoMigrate(db)
}

func createMoveHistoryView(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		if err := db.Exec("DROP VIEW IF EXISTS " + models.MoveHistoryView).Error; err != nil {
			return apperror.Migration("drop view", err)
		}
		if err := db.Exec("CREATE VIEW " + models.MoveHistoryView + " AS " + moveHistorySelect).Error; err != nil {
			return apperror.Migration("create view", err)
		}
		return nil
	}

	if err := db.Exec("CREATE OR REPLACE VIEW " + models.MoveHistoryView + " AS " + moveHistorySelect).Error; err != nil {
		return apperror.Migration("create view", err)
	}
	return nil
}
