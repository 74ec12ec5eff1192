package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const stringListSeparator = ","

// StringList хранится в одной колонке как строка, разделённая запятыми
type StringList []string

func (sl StringList) Value() (driver.Value, error) {
	return sl.Join(), nil
}

func (sl *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*sl = ParseStringList("")
	case []byte:
		*sl = ParseStringList(string(v))
	case string:
		*sl = ParseStringList(v)
	default:
		return fmt.Errorf("невозможно извлечь StringList из %T", value)
	}
	return nil
}

func (sl StringList) Join() string {
	if len(sl) == 0 {
		return ""
	}
	return strings.Join(sl, stringListSeparator)
}

// ParseStringList возвращает пустой, но не nil список для пустой строки
func ParseStringList(s string) StringList {
	if s == "" {
		return StringList{}
	}
	return StringList(strings.Split(s, stringListSeparator))
}
