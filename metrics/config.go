package metrics

// Config 指标监控配置.
type Config struct {
	// Path 指标暴露路径，默认 /metrics
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	// Namespace 指标命名空间，默认 pipeline
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
	// UnitBuckets 单次运行执行单元数的直方图分桶
	UnitBuckets []float64 `json:"unit_buckets" yaml:"unit_buckets" mapstructure:"unit_buckets"`
}

// DefaultConfig 返回默认配置.
func DefaultConfig() *Config {
	return &Config{
		Path:      "/metrics",
		Namespace: "pipeline",
	}
}
