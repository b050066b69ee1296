package services

import (
	"errors"

	"gorm.io/gorm"

	"property-http-service/internal/error/apperror"
)

// entity 描述一张表的主键与不存在时的错误码
type entity struct {
	name     string
	key      string
	notFound int
}

func (e entity) notFoundError(id uint) error {
	return apperror.NewNotFoundError(e.notFound, e.name, id)
}

// listAll 按主键顺序读取整表
func listAll[T any](tx *gorm.DB, e entity) ([]T, error) {
	rows := make([]T, 0)
	if err := tx.Order(e.key).Find(&rows).Error; err != nil {
		return nil, apperror.Store("list "+e.name, err)
	}
	return rows, nil
}

// getByID 读取单条记录
func getByID[T any](tx *gorm.DB, e entity, id uint) (*T, error) {
	var row T
	if err := tx.Where(e.key+" = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.notFoundError(id)
		}
		return nil, apperror.Store("get "+e.name, err)
	}
	return &row, nil
}

// updateByID 单条语句替换全部可变列, 未匹配任何行时返回 NotFoundError
func updateByID(tx *gorm.DB, e entity, model interface{}, id uint, columns map[string]interface{}) error {
	result := tx.Model(model).Where(e.key+" = ?", id).Updates(columns)
	if result.Error != nil {
		return apperror.Store("update "+e.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return e.notFoundError(id)
	}
	return nil
}

// deleteByID 永久删除, 未匹配任何行时返回 NotFoundError
func deleteByID(tx *gorm.DB, e entity, model interface{}, id uint) error {
	result := tx.Where(e.key+" = ?", id).Delete(model)
	if result.Error != nil {
		return apperror.Store("delete "+e.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return e.notFoundError(id)
	}
	return nil
}
