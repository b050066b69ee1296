package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusCreated - 201: 已创建.
	StatusCreated = 201
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusServiceUnavailable - 503: 服务不可用.
	StatusServiceUnavailable = 503
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求体无法解析.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrInvalidID - 400: 路径中的ID无效.
	ErrInvalidID
	// ErrLoginFailed - 401: 用户名或密码错误.
	ErrLoginFailed
)

// 物业相关错误码 (101xxx).
const (
	// ErrPropertyNotFound - 404: 物业不存在.
	ErrPropertyNotFound int = iota + 101000
	// ErrPropertyInvalid - 400: 物业名称或地址缺失.
	ErrPropertyInvalid
)

// 公寓相关错误码 (102xxx).
const (
	// ErrApartmentNotFound - 404: 公寓不存在.
	ErrApartmentNotFound int = iota + 102000
	// ErrApartmentInvalid - 400: 物业ID或公寓编号缺失.
	ErrApartmentInvalid
	// ErrApartmentTypeInvalid - 400: 公寓类型无效.
	ErrApartmentTypeInvalid
)

// 租户相关错误码 (103xxx).
const (
	// ErrTenantNotFound - 404: 租户不存在.
	ErrTenantNotFound int = iota + 103000
	// ErrTenantInvalid - 400: 姓名或证件号缺失.
	ErrTenantInvalid
)

// 租约相关错误码 (104xxx).
const (
	// ErrTenancyNotFound - 404: 租约不存在.
	ErrTenancyNotFound int = iota + 104000
	// ErrTenancyInvalid - 400: 租约必填字段缺失.
	ErrTenancyInvalid
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
	// ErrConfig - 500: 数据库配置缺失.
	ErrConfig
	// ErrDatabaseUnavailable - 503: 数据库不可达.
	ErrDatabaseUnavailable
)

// 搬迁记录相关错误码 (106xxx).
const (
	// ErrMoveHistoryNotFound - 404: 搬迁记录不存在.
	ErrMoveHistoryNotFound int = iota + 106000
)

// 迁移相关错误码 (109xxx).
const (
	// ErrMigrationFailed - 500: 迁移失败.
	ErrMigrationFailed int = iota + 109000
	// ErrConnectionFailed - 500: 连接失败.
	ErrConnectionFailed
)
