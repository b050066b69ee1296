package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "Success",
	ErrUnknown:         "Unknown error",
	ErrBind:            "Invalid request body",
	ErrValidation:      "Validation failed",
	ErrTokenInvalid:    "Invalid or missing token",
	ErrTooManyRequests: "Too many requests",
	ErrInvalidID:       "Invalid ID",
	ErrLoginFailed:     "Invalid username or password",

	// 物业相关错误码
	ErrPropertyNotFound: "Property not found",
	ErrPropertyInvalid:  "Name and address are required",

	// 公寓相关错误码
	ErrApartmentNotFound:    "Apartment not found",
	ErrApartmentInvalid:     "Property ID and apartment number are required",
	ErrApartmentTypeInvalid: "Invalid apartment type",

	// 租户相关错误码
	ErrTenantNotFound: "Tenant not found",
	ErrTenantInvalid:  "Name and ID/Passport number are required",

	// 租约相关错误码
	ErrTenancyNotFound: "Tenancy not found",
	ErrTenancyInvalid:  "Apartment ID, tenant ID, start date, rent amount, and deposit amount are required",

	// 数据库相关错误码
	ErrDatabase:            "Database error",
	ErrRecordNotFound:      "Record not found",
	ErrConfig:              "Missing required environment variables: DB_HOST, DB_USER, DB_PASSWORD, or DB_NAME",
	ErrDatabaseUnavailable: "Database unavailable",

	// 搬迁记录相关错误码
	ErrMoveHistoryNotFound: "Tenancy move history not found",

	// 迁移相关错误码
	ErrMigrationFailed:  "Migration failed",
	ErrConnectionFailed: "Connection failed",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrInvalidID:       StatusBadRequest,
	ErrLoginFailed:     StatusUnauthorized,

	// 物业相关错误码
	ErrPropertyNotFound: StatusNotFound,
	ErrPropertyInvalid:  StatusBadRequest,

	// 公寓相关错误码
	ErrApartmentNotFound:    StatusNotFound,
	ErrApartmentInvalid:     StatusBadRequest,
	ErrApartmentTypeInvalid: StatusBadRequest,

	// 租户相关错误码
	ErrTenantNotFound: StatusNotFound,
	ErrTenantInvalid:  StatusBadRequest,

	// 租约相关错误码
	ErrTenancyNotFound: StatusNotFound,
	ErrTenancyInvalid:  StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:            StatusInternalServerError,
	ErrRecordNotFound:      StatusNotFound,
	ErrConfig:              StatusInternalServerError,
	ErrDatabaseUnavailable: StatusServiceUnavailable,

	// 搬迁记录相关错误码
	ErrMoveHistoryNotFound: StatusNotFound,

	// 迁移相关错误码
	ErrMigrationFailed:  StatusInternalServerError,
	ErrConnectionFailed: StatusInternalServerError,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
