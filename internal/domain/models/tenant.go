package models

// Tenant 表示租户
type Tenant struct {
	TenantID              uint    `gorm:"column:tenant_id;primaryKey;autoIncrement" json:"tenant_id"`
	Name                  string  `gorm:"type:varchar(255);not null" json:"name"`
	IDPassportNumber      string  `gorm:"column:id_passport_number;type:varchar(100);not null" json:"id_passport_number"` // 身份证或护照号
	Contact               *string `gorm:"type:varchar(100)" json:"contact"`                                               // 联系电话
	Email                 *string `gorm:"type:varchar(255)" json:"email"`
	EmergencyContactName  *string `gorm:"type:varchar(255)" json:"emergency_contact_name"`
	EmergencyContactPhone *string `gorm:"type:varchar(100)" json:"emergency_contact_phone"`
}

// TableName 表名
func (Tenant) TableName() string {
	return "tenants"
}

// TenantInput 创建与更新租户的请求体
type TenantInput struct {
	Name                  string  `json:"name" validate:"required"`
	IDPassportNumber      string  `json:"id_passport_number" validate:"required"`
	Contact               *string `json:"contact"`
	Email                 *string `json:"email"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

// Normalize 空白的可选文本视为未提供
func (in *TenantInput) Normalize() {
	in.Contact = trimmed(in.Contact)
	in.Email = trimmed(in.Email)
	in.EmergencyContactName = trimmed(in.EmergencyContactName)
	in.EmergencyContactPhone = trimmed(in.EmergencyContactPhone)
}

// Model 转换为待插入的记录
func (in TenantInput) Model() Tenant {
	return Tenant{
		Name:                  in.Name,
		IDPassportNumber:      in.IDPassportNumber,
		Contact:               in.Contact,
		Email:                 in.Email,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
	}
}

// Columns 全量替换时写入的列
func (in TenantInput) Columns() map[string]interface{} {
	return map[string]interface{}{
		"name":                    in.Name,
		"id_passport_number":      in.IDPassportNumber,
		"contact":                 nullable(in.Contact),
		"email":                   nullable(in.Email),
		"emergency_contact_name":  nullable(in.EmergencyContactName),
		"emergency_contact_phone": nullable(in.EmergencyContactPhone),
	}
}
