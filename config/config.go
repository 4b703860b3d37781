// Package config 提供基于 viper 的配置加载.
package config

import (
	"path/filepath"
	"strings"
)

// Validatable 可验证的配置接口.
// 加载完成后自动调用 Validate.
type Validatable interface {
	Validate() error
}

// Defaultable 可设置默认值的配置接口.
// 在 Validate 之前调用.
type Defaultable interface {
	ApplyDefaults()
}

// TypeOf 根据文件扩展名获取配置类型，无法识别时返回空字符串.
func TypeOf(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json", ".toml", ".ini", ".env", ".properties":
		return ext[1:]
	default:
		return ""
	}
}
