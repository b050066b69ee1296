package services

import (
	"gorm.io/gorm"

	"property-http-service/internal/domain/models"
	"property-http-service/internal/error/apperror"
	"property-http-service/internal/error/code"
)

var apartmentEntity = entity{name: "apartment", key: "apartment_id", notFound: code.ErrApartmentNotFound}

// InterfaceApartmentService defines the apartment service interface
type InterfaceApartmentService interface {
	List(tx *gorm.DB) ([]models.Apartment, error)
	Get(tx *gorm.DB, id uint) (*models.Apartment, error)
	Create(tx *gorm.DB, input models.ApartmentInput) (uint, error)
	Update(tx *gorm.DB, id uint, input models.ApartmentInput) error
	Delete(tx *gorm.DB, id uint) error
}

// ApartmentService 提供公寓相关的服务
type ApartmentService struct{}

// NewApartmentService 创建公寓服务
func NewApartmentService() InterfaceApartmentService {
	return &ApartmentService{}
}

// 1 List 获取所有公寓
func (s *ApartmentService) List(tx *gorm.DB) ([]models.Apartment, error) {
	return listAll[models.Apartment](tx, apartmentEntity)
}

// 2 Get 根据ID获取公寓
func (s *ApartmentService) Get(tx *gorm.DB, id uint) (*models.Apartment, error) {
	return getByID[models.Apartment](tx, apartmentEntity, id)
}

// 3 Create 创建公寓, 返回新ID
func (s *ApartmentService) Create(tx *gorm.DB, input models.ApartmentInput) (uint, error) {
	if err := s.validate(&input); err != nil {
		return 0, err
	}

	apartment := input.Model()
	if err := tx.Create(&apartment).Error; err != nil {
		return 0, apperror.Store("create apartment", err)
	}
	return apartment.ApartmentID, nil
}

// 4 Update 替换公寓的全部可变字段
func (s *ApartmentService) Update(tx *gorm.DB, id uint, input models.ApartmentInput) error {
	if err := s.validate(&input); err != nil {
		return err
	}
	return updateByID(tx, apartmentEntity, &models.Apartment{}, id, input.Columns())
}

// 5 Delete 删除公寓
func (s *ApartmentService) Delete(tx *gorm.DB, id uint) error {
	return deleteByID(tx, apartmentEntity, &models.Apartment{}, id)
}

// validate 必填字段缺失优先于户型错误
func (s *ApartmentService) validate(input *models.ApartmentInput) error {
	input.Normalize()

	fields, err := violations(input)
	if err != nil || len(fields) == 0 {
		return err
	}
	for _, f := range fields {
		if f.Field != "apartment_type" {
			return apperror.NewValidationError(code.ErrApartmentInvalid, fields)
		}
	}
	return apperror.NewValidationError(code.ErrApartmentTypeInvalid, fields)
}
