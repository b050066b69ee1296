package services

import (
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/error/code"
)

var moveHistoryEntity = entity{name: "move history", key: "tenancy_id", notFound: code.ErrMoveHistoryNotFound}

// InterfaceMoveHistoryService defines the read-only move history service
type InterfaceMoveHistoryService interface {
	List(tx *gorm.DB) ([]models.MoveHistory, error)
	Get(tx *gorm.DB, tenancyID uint) (*models.MoveHistory, error)
}

// MoveHistoryService 读取租户搬迁记录视图
type MoveHistoryService struct{}

// NewMoveHistoryService 创建搬迁记录服务
func NewMoveHistoryService() InterfaceMoveHistoryService {
	return &MoveHistoryService{}
}

// 1 List 获取全部搬迁记录
func (s *MoveHistoryService) List(tx *gorm.DB) ([]models.MoveHistory, error) {
	return listAll[models.MoveHistory](tx, moveHistoryEntity)
}

// 2 Get 根据租约ID获取搬迁记录
func (s *MoveHistoryService) Get(tx *gorm.DB, tenancyID uint) (*models.MoveHistory, error) {
	return getByID[models.MoveHistory](tx, moveHistoryEntity, tenancyID)
}
