package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// 金额以JSON数字输出
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout 日期的线上与存储格式
const DateLayout = "2006-01-02"

// Date 仅包含日期部分的时间, JSON 格式为 "YYYY-MM-DD"
type Date time.Time

// NewDate 创建日期
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// 请求中接受的格式: 日期或完整的 RFC 3339 时间戳
var inputLayouts = []string{DateLayout, time.RFC3339Nano}

// 数据库驱动可能返回的格式
var storedLayouts = []string{DateLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05.999999999-07:00"}

// ParseDate 解析日期字符串, 接受 "YYYY-MM-DD" 或 RFC 3339 时间戳, 其他后缀一律拒绝
func ParseDate(s string) (Date, error) {
	return parseDate(s, inputLayouts)
}

func parseDate(s string, layouts []string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// String 返回 "YYYY-MM-DD"
func (d Date) String() string {
	return time.Time(d).Format(DateLayout)
}

// Time 返回底层时间
func (d Date) Time() time.Time {
	return time.Time(d)
}

// GormDataType 数据库列类型
func (Date) GormDataType() string {
	return "date"
}

// MarshalJSON 实现 json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 实现 json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 实现 driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan 实现 sql.Scanner
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = Date(time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC))
		return nil
	case string:
		parsed, err := parseDate(v, storedLayouts)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

// Flag 以 0/1 表示的布尔值, 输入同时接受 true/false
type Flag bool

// GormDataType 数据库列类型
func (Flag) GormDataType() string {
	return "bool"
}

// MarshalJSON 输出 1 或 0
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON 接受 0/1 与 true/false
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "1", "true":
		*f = true
	case "0", "false":
		*f = false
	default:
		return fmt.Errorf("invalid flag %s, expected 0, 1, true or false", data)
	}
	return nil
}

// Value 实现 driver.Valuer
func (f Flag) Value() (driver.Value, error) {
	return bool(f), nil
}

// Scan 实现 sql.Scanner
func (f *Flag) Scan(value interface{}) error {
	switch v := value.(type) {
	case bool:
		*f = Flag(v)
	case int64:
		*f = v != 0
	case []byte:
		*f = len(v) > 0 && string(v) != "0" && string(v) != "false"
	case string:
		*f = v != "" && v != "0" && v != "false"
	default:
		return fmt.Errorf("cannot scan %T into Flag", value)
	}
	return nil
}

// BoolFlag 返回指向 Flag 的指针
func BoolFlag(b bool) *Flag {
	f := Flag(b)
	return &f
}

// trimmed 去除首尾空白, 空字符串视为未提供
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// nullable 将可选值转换为列值, nil 写入 NULL
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
