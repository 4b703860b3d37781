package config

import "strings"

// options 配置加载选项.
type options struct {
	envPrefix      string
	envKeyReplacer *strings.Replacer
	automaticEnv   bool
	configType     string
	defaults       map[string]any
}

func defaultOptions() *options {
	return &options{
		envKeyReplacer: strings.NewReplacer(".", "_"),
		automaticEnv:   true,
	}
}

// Option 配置选项函数.
type Option func(*options)

// WithEnvPrefix 设置环境变量前缀并启用环境变量覆盖.
// 例如 "PIPELINE" 会将 PIPELINE_LOGGER_LEVEL 映射到 logger.level.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithoutEnv 关闭环境变量覆盖.
func WithoutEnv() Option {
	return func(o *options) {
		o.automaticEnv = false
	}
}

// WithDefaults 设置默认值，键使用点分路径.
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) {
		if o.defaults == nil {
			o.defaults = make(map[string]any, len(defaults))
		}
		for k, v := range defaults {
			o.defaults[k] = v
		}
	}
}

// WithConfigType 显式指定配置文件类型.
func WithConfigType(configType string) Option {
	return func(o *options) {
		o.configType = configType
	}
}
