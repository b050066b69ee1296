package services

import (
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/error/apperror"
	"property-http-service/internal/error/code"
)

var propertyEntity = entity{name: "property", key: "property_id", notFound: code.ErrPropertyNotFound}

// InterfacePropertyService defines the property service interface
type InterfacePropertyService interface {
	List(tx *gorm.DB) ([]models.Property, error)
	Get(tx *gorm.DB, id uint) (*models.Property, error)
	Create(tx *gorm.DB, input models.PropertyInput) (uint, error)
	Update(tx *gorm.DB, id uint, input models.PropertyInput) error
	Delete(tx *gorm.DB, id uint) error
}

// PropertyService 提供物业相关的服务
type PropertyService struct{}

// NewPropertyService 创建物业服务
func NewPropertyService() InterfacePropertyService {
	return &PropertyService{}
}

// 1 List 获取所有物业
func (s *PropertyService) List(tx *gorm.DB) ([]models.Property, error) {
	return listAll[models.Property](tx, propertyEntity)
}

// 2 Get 根据ID获取物业
func (s *PropertyService) Get(tx *gorm.DB, id uint) (*models.Property, error) {
	return getByID[models.Property](tx, propertyEntity, id)
}

// 3 Create 创建物业, 返回新ID
func (s *PropertyService) Create(tx *gorm.DB, input models.PropertyInput) (uint, error) {
	if err := s.validate(&input); err != nil {
		return 0, err
	}

	property := input.Model()
	if err := tx.Create(&property).Error; err != nil {
		return 0, apperror.Store("create property", err)
	}
	return property.PropertyID, nil
}

// 4 Update 替换物业的全部可变字段
func (s *PropertyService) Update(tx *gorm.DB, id uint, input models.PropertyInput) error {
	if err := s.validate(&input); err != nil {
		return err
	}
	return updateByID(tx, propertyEntity, &models.Property{}, id, input.Columns())
}

// 5 Delete 删除物业
func (s *PropertyService) Delete(tx *gorm.DB, id uint) error {
	return deleteByID(tx, propertyEntity, &models.Property{}, id)
}

func (s *PropertyService) validate(input *models.PropertyInput) error {
	input.Normalize()
	return validateInput(input, code.ErrPropertyInvalid)
}
