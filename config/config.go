package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"

	"github.com/ByLCY/qrcanvas/scene"
)

// Config 是命令行的 TOML 配置，命令行参数优先于配置文件。
type Config struct {
	Format      string
	FontFamily  string
	DPI         float64
	Parallelism int
	LogLevel    string
	// Output 是批量生成时的输出目录。
	Output string

	Meta MetaConf

	md toml.MetaData
}

// MetaConf 为没有 meta 段的脚本提供文档信息。
type MetaConf struct {
	Author  string
	Creator string
}

var formats = []string{"pdf", "svg", "png"}

func newConfig() *Config {
	return &Config{
		Format:      "pdf",
		FontFamily:  scene.DefaultFontFamily,
		DPI:         144,
		Parallelism: runtime.NumCPU(),
		LogLevel:    "info",
		Output:      "output",
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config { return newConfig() }

// Load reads a TOML file. Keys that do not map to a field are an error.
func Load(fileName string) (*Config, error) {
	return load(fileName, true)
}

// LoadString is like Load but takes the TOML text itself.
func LoadString(conf string) (*Config, error) {
	return load(conf, false)
}

func load(conf string, isFileName bool) (*Config, error) {
	c := newConfig()
	var md toml.MetaData
	var err error
	if isFileName {
		md, err = toml.DecodeFile(conf, c)
	} else {
		md, err = toml.Decode(conf, c)
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("配置中有无法识别的字段: %v", undecoded)
	}
	c.md = md
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values that TOML decoding cannot.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(c.Format)
	ok := false
	for _, f := range formats {
		ok = ok || f == c.Format
	}
	if !ok {
		return fmt.Errorf("不支持的输出格式 %q (可选 %s)", c.Format, strings.Join(formats, ", "))
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi 必须为正数: %v", c.DPI)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism 至少为 1: %d", c.Parallelism)
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("未知的日志级别 %q", c.LogLevel)
	}
	return nil
}

// IsDefined reports whether key was set in the configuration file.
func (c *Config) IsDefined(key ...string) bool {
	return c.md.IsDefined(key...)
}

// Logger returns a named logger at the configured level.
func (c *Config) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(c.LogLevel),
	})
}
