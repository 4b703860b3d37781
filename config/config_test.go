package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

type pipelineConfig struct {
	Name   string       `mapstructure:"name"`
	Logger loggerConfig `mapstructure:"logger"`
	Units  []string     `mapstructure:"units"`
}

type loggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c *pipelineConfig) ApplyDefaults() {
	if c.Logger.Format == "" {
		c.Logger.Format = "json"
	}
}

func (c *pipelineConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name 不能为空")
	}
	return nil
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigTestSuite) TestLoad_YAML() {
	path := s.write("pipeline.yaml", `
name: auth
logger:
  level: debug
units: [recover, authenticate, authorize]
`)

	cfg, err := Load[pipelineConfig](path)

	s.Require().NoError(err)
	s.Equal("auth", cfg.Name)
	s.Equal("debug", cfg.Logger.Level)
	s.Equal("json", cfg.Logger.Format)
	s.Equal([]string{"recover", "authenticate", "authorize"}, cfg.Units)
}

func (s *ConfigTestSuite) TestLoad_JSON() {
	path := s.write("pipeline.json", `{"name": "orders", "logger": {"format": "console"}}`)

	cfg, err := Load[pipelineConfig](path)

	s.Require().NoError(err)
	s.Equal("orders", cfg.Name)
	s.Equal("console", cfg.Logger.Format)
}

func (s *ConfigTestSuite) TestLoad_FileNotFound() {
	_, err := Load[pipelineConfig](filepath.Join(s.dir, "missing.yaml"))

	s.ErrorIs(err, ErrFileNotFound)
}

func (s *ConfigTestSuite) TestLoad_UnknownType() {
	path := s.write("pipeline.conf", "name: auth")

	_, err := Load[pipelineConfig](path)
	s.ErrorIs(err, ErrInvalidType)

	cfg, err := Load[pipelineConfig](path, WithConfigType("yaml"))
	s.Require().NoError(err)
	s.Equal("auth", cfg.Name)
}

func (s *ConfigTestSuite) TestLoad_ReadError() {
	path := s.write("broken.yaml", "name: [unterminated")

	_, err := Load[pipelineConfig](path)

	s.ErrorIs(err, ErrReadConfig)
}

func (s *ConfigTestSuite) TestLoad_ValidationError() {
	path := s.write("empty.yaml", "units: []")

	_, err := Load[pipelineConfig](path)

	s.ErrorIs(err, ErrValidation)
	s.Contains(err.Error(), "name 不能为空")
}

func (s *ConfigTestSuite) TestLoad_Defaults() {
	path := s.write("partial.yaml", "logger:\n  level: warn\n")

	cfg, err := Load[pipelineConfig](path, WithDefaults(map[string]any{"name": "default"}))

	s.Require().NoError(err)
	s.Equal("default", cfg.Name)
	s.Equal("warn", cfg.Logger.Level)
}

func (s *ConfigTestSuite) TestLoad_EnvOverride() {
	path := s.write("env.yaml", "name: auth\nlogger:\n  level: info\n")
	s.T().Setenv("PIPELINE_LOGGER_LEVEL", "error")

	cfg, err := Load[pipelineConfig](path, WithEnvPrefix("pipeline"))
	s.Require().NoError(err)
	s.Equal("error", cfg.Logger.Level)

	cfg, err = Load[pipelineConfig](path, WithEnvPrefix("pipeline"), WithoutEnv())
	s.Require().NoError(err)
	s.Equal("info", cfg.Logger.Level)
}

func (s *ConfigTestSuite) TestMustLoad_Panics() {
	s.Panics(func() {
		MustLoad[pipelineConfig](filepath.Join(s.dir, "missing.yaml"))
	})
}

func (s *ConfigTestSuite) TestLoadFromBytes() {
	cfg, err := LoadFromBytes[pipelineConfig]([]byte("name = \"auth\"\n"), "toml")
	s.Require().NoError(err)
	s.Equal("auth", cfg.Name)

	_, err = LoadFromBytes[pipelineConfig]([]byte("name: auth"), "")
	s.ErrorIs(err, ErrInvalidType)
}

func TestTypeOf(t *testing.T) {
	cases := map[string]string{
		"a.yaml":       "yaml",
		"a.YML":        "yaml",
		"a.json":       "json",
		"a.toml":       "toml",
		"a.properties": "properties",
		"a.txt":        "",
		"noext":        "",
	}
	for name, want := range cases {
		assert.Equal(t, want, TypeOf(name), name)
	}
}
