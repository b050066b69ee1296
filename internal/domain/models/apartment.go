package models

// 公寓类型
const (
	ApartmentTypeStudio       = "studio"
	ApartmentTypeOneBedroom   = "one_bedroom"
	ApartmentTypeTwoBedroom   = "two_bedroom"
	ApartmentTypeThreeBedroom = "three_bedroom"
)

// ApartmentTypes 允许的公寓类型
var ApartmentTypes = []string{
	ApartmentTypeStudio,
	ApartmentTypeOneBedroom,
	ApartmentTypeTwoBedroom,
	ApartmentTypeThreeBedroom,
}

// Apartment 表示物业下的单个公寓
type Apartment struct {
	ApartmentID     uint    `gorm:"column:apartment_id;primaryKey;autoIncrement" json:"apartment_id"`
	PropertyID      uint    `gorm:"not null;index" json:"property_id"`                 // 所属物业ID
	ApartmentNumber string  `gorm:"type:varchar(50);not null" json:"apartment_number"` // 公寓编号, 如 "A-101"
	ApartmentType   *string `gorm:"type:varchar(20)" json:"apartment_type"`            // 户型
	SwitchName      *string `gorm:"type:varchar(100)" json:"switch_name"`              // 网络交换机名称
	PortNumber      *int    `json:"port_number"`                                       // 交换机端口

	Property *Property `gorm:"foreignKey:PropertyID;references:PropertyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName 表名
func (Apartment) TableName() string {
	return "apartments"
}

// ApartmentInput 创建与更新公寓的请求体
type ApartmentInput struct {
	PropertyID      *uint   `json:"property_id" validate:"required,gt=0"`
	ApartmentNumber string  `json:"apartment_number" validate:"required"`
	ApartmentType   *string `json:"apartment_type" validate:"omitempty,oneof=studio one_bedroom two_bedroom three_bedroom"`
	SwitchName      *string `json:"switch_name"`
	PortNumber      *int    `json:"port_number"`
}

// Normalize 空白的可选文本视为未提供
func (in *ApartmentInput) Normalize() {
	in.ApartmentType = trimmed(in.ApartmentType)
	in.SwitchName = trimmed(in.SwitchName)
}

// Model 转换为待插入的记录
func (in ApartmentInput) Model() Apartment {
	apartment := Apartment{
		ApartmentNumber: in.ApartmentNumber,
		ApartmentType:   in.ApartmentType,
		SwitchName:      in.SwitchName,
		PortNumber:      in.PortNumber,
	}
	if in.PropertyID != nil {
		apartment.PropertyID = *in.PropertyID
	}
	return apartment
}

// Columns 全量替换时写入的列
func (in ApartmentInput) Columns() map[string]interface{} {
	return map[string]interface{}{
		"property_id":      nullable(in.PropertyID),
		"apartment_number": in.ApartmentNumber,
		"apartment_type":   nullable(in.ApartmentType),
		"switch_name":      nullable(in.SwitchName),
		"port_number":      nullable(in.PortNumber),
	}
}
