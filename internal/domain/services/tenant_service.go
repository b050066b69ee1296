package services

import (
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/error/apperror"
	"property-http-service/internal/error/code"
)

var tenantEntity = entity{name: "tenant", key: "tenant_id", notFound: code.ErrTenantNotFound}

// InterfaceTenantService defines the tenant service interface
type InterfaceTenantService interface {
	List(tx *gorm.DB) ([]models.Tenant, error)
	Get(tx *gorm.DB, id uint) (*models.Tenant, error)
	Create(tx *gorm.DB, input models.TenantInput) (uint, error)
	Update(tx *gorm.DB, id uint, input models.TenantInput) error
	Delete(tx *gorm.DB, id uint) error
}

// TenantService 提供租户相关的服务
type TenantService struct{}

// NewTenantService 创建租户服务
func NewTenantService() InterfaceTenantService {
	return &TenantService{}
}

// 1 List 获取所有租户
func (s *TenantService) List(tx *gorm.DB) ([]models.Tenant, error) {
	return listAll[models.Tenant](tx, tenantEntity)
}

// 2 Get 根据ID获取租户
func (s *TenantService) Get(tx *gorm.DB, id uint) (*models.Tenant, error) {
	return getByID[models.Tenant](tx, tenantEntity, id)
}

// 3 Create 创建租户, 返回新ID
func (s *TenantService) Create(tx *gorm.DB, input models.TenantInput) (uint, error) {
	input.Normalize()
	if err := validateInput(&input, code.ErrTenantInvalid); err != nil {
		return 0, err
	}

	tenant := input.Model()
	if err := tx.Create(&tenant).Error; err != nil {
		return 0, apperror.Store("create tenant", err)
	}
	return tenant.TenantID, nil
}

// 4 Update 替换租户的全部可变字段
func (s *TenantService) Update(tx *gorm.DB, id uint, input models.TenantInput) error {
	input.Normalize()
	if err := validateInput(&input, code.ErrTenantInvalid); err != nil {
		return err
	}
	return updateByID(tx, tenantEntity, &models.Tenant{}, id, input.Columns())
}

// 5 Delete 删除租户
func (s *TenantService) Delete(tx *gorm.DB, id uint) error {
	return deleteByID(tx, tenantEntity, &models.Tenant{}, id)
}
