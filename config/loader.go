package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load 从文件加载配置.
// 文件类型根据扩展名识别，也可以通过 WithConfigType 指定.
func Load[T any](path string, opts ...Option) (*T, error) {
	o := applyOptions(opts)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	configType := o.configType
	if configType == "" {
		configType = TypeOf(path)
	}
	if configType == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, path)
	}

	v := newViper(o)
	v.SetConfigFile(path)
	v.SetConfigType(configType)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	return decode[T](v)
}

// MustLoad 加载配置，失败时 panic.
func MustLoad[T any](path string, opts ...Option) *T {
	cfg, err := Load[T](path, opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFromBytes 从字节数组加载配置.
func LoadFromBytes[T any](data []byte, configType string, opts ...Option) (*T, error) {
	o := applyOptions(opts)
	if configType == "" {
		return nil, ErrInvalidType
	}

	v := newViper(o)
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}

	return decode[T](v)
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func newViper(o *options) *viper.Viper {
	v := viper.New()
	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}
	// 未设置前缀时不读取环境变量.
	if o.envPrefix == "" || !o.automaticEnv {
		return v
	}
	v.SetEnvPrefix(strings.ToUpper(o.envPrefix))
	if o.envKeyReplacer != nil {
		v.SetEnvKeyReplacer(o.envKeyReplacer)
	}
	v.AutomaticEnv()
	return v
}

// decode 解析配置，依次应用默认值与验证.
func decode[T any](v *viper.Viper) (*T, error) {
	cfg := new(T)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnmarshal, err)
	}

	if d, ok := any(cfg).(Defaultable); ok {
		d.ApplyDefaults()
	}
	if val, ok := any(cfg).(Validatable); ok {
		if err := val.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return cfg, nil
}
