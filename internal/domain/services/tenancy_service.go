package services

import (
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/error/apperror"
	"property-http-service/internal/error/code"
)

var tenancyEntity = entity{name: "tenancy", key: "tenancy_id", notFound: code.ErrTenancyNotFound}

// InterfaceTenancyService defines the tenancy service interface
type InterfaceTenancyService interface {
	List(tx *gorm.DB) ([]models.Tenancy, error)
	Get(tx *gorm.DB, id uint) (*models.Tenancy, error)
	Create(tx *gorm.DB, input models.TenancyInput) (uint, error)
	Update(tx *gorm.DB, id uint, input models.TenancyInput) error
	Delete(tx *gorm.DB, id uint) error
}

// TenancyService 提供租约相关的服务
type TenancyService struct{}

// NewTenancyService 创建租约服务
func NewTenancyService() InterfaceTenancyService {
	return &TenancyService{}
}

// 1 List 获取所有租约
func (s *TenancyService) List(tx *gorm.DB) ([]models.Tenancy, error) {
	return listAll[models.Tenancy](tx, tenancyEntity)
}

// 2 Get 根据ID获取租约
func (s *TenancyService) Get(tx *gorm.DB, id uint) (*models.Tenancy, error) {
	return getByID[models.Tenancy](tx, tenancyEntity, id)
}

// 3 Create 创建租约, 未提供 active 时视为有效租约
func (s *TenancyService) Create(tx *gorm.DB, input models.TenancyInput) (uint, error) {
	input.Normalize()
	if err := validateInput(&input, code.ErrTenancyInvalid); err != nil {
		return 0, err
	}

	tenancy := input.Model()
	if err := tx.Create(&tenancy).Error; err != nil {
		return 0, apperror.Store("create tenancy", err)
	}
	return tenancy.TenancyID, nil
}

// 4 Update 替换租约的全部可变字段, 未提供 active 时同样重置为有效
func (s *TenancyService) Update(tx *gorm.DB, id uint, input models.TenancyInput) error {
	input.Normalize()
	if err := validateInput(&input, code.ErrTenancyInvalid); err != nil {
		return err
	}
	return updateByID(tx, tenancyEntity, &models.Tenancy{}, id, input.Columns())
}

// 5 Delete 删除租约
func (s *TenancyService) Delete(tx *gorm.DB, id uint) error {
	return deleteByID(tx, tenancyEntity, &models.Tenancy{}, id)
}
