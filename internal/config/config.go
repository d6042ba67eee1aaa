package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL  string   `yaml:"base_url"`
	Pages    []string `yaml:"pages"`
	Template string   `yaml:"template"`
	Marker   string   `yaml:"marker"`
	Output   string   `yaml:"output"`
	Filename string   `yaml:"filename"`
	Workers  int      `yaml:"workers"`
	Debug    bool     `yaml:"debug"`

	UserAgent        string        `yaml:"user_agent"`
	Timeout          time.Duration `yaml:"timeout"`
	CloudflareBypass bool          `yaml:"cloudflare_bypass"`

	// Render loads pages in a headless browser instead of a plain GET.
	Render     bool   `yaml:"render"`
	BrowserURL string `yaml:"browser_url"`
}

type Options struct {
	IgnoreConfig     bool
	Debug            bool
	BaseURL          string
	Pages            []string
	Template         string
	Marker           string
	Output           string
	Filename         string
	Workers          int
	UserAgent        string
	Timeout          time.Duration
	CloudflareBypass bool
	Render           bool
	BrowserURL       string
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://waifustation.miku-royal.ts.net/",
		Pages:            []string{"/portainer", "/tea", "/", "/tea/dragsbruh/proxii"},
		Template:         "template.html",
		Marker:           "<header-tags />",
		Output:           "dist",
		Filename:         "404.html",
		Workers:          1,
		Debug:            false,
		UserAgent:        "",
		Timeout:          0,
		CloudflareBypass: false,
		Render:           false,
		BrowserURL:       "",
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `notfoundgen config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if len(o.Pages) > 0 {
		c.Pages = o.Pages
	}
	if o.Template != "" {
		c.Template = o.Template
	}
	if o.Marker != "" {
		c.Marker = o.Marker
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Filename != "" {
		c.Filename = o.Filename
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.Render {
		c.Render = true
	}
	if o.BrowserURL != "" {
		c.BrowserURL = o.BrowserURL
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.Template == "" {
		c.Template = def.Template
	}
	if c.Marker == "" {
		c.Marker = def.Marker
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Filename == "" {
		c.Filename = def.Filename
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrNoBaseURL
	}
	if len(c.Pages) == 0 {
		return ErrNoPages
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// Print writes the settings that matter for a run, skipping optional
// fields left at their defaults.
func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -base_url: %s\n", c.BaseURL)
	fmt.Fprintf(w, " -pages: %s\n", strings.Join(c.Pages, ", "))
	fmt.Fprintf(w, " -template: %s\n", c.Template)
	if c.Marker != DefaultConfig().Marker {
		fmt.Fprintf(w, " -marker: %s\n", c.Marker)
	}
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -filename: %s\n", c.Filename)
	if c.Workers > 1 {
		fmt.Fprintf(w, " -workers: %d\n", c.Workers)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.Timeout > 0 {
		fmt.Fprintf(w, " -timeout: %s\n", c.Timeout)
	}
	if c.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.Render {
		fmt.Fprintf(w, " -render: %t\n", c.Render)
	}
	if c.BrowserURL != "" {
		fmt.Fprintf(w, " -browser_url: %s\n", c.BrowserURL)
	}
}
