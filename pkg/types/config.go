package types

import "time"

// ConversionBackend identifies the DOCX-to-HTML conversion tool.
type ConversionBackend string

const (
	// BackendPandoc runs the pandoc image through docker or podman.
	BackendPandoc ConversionBackend = "pandoc"

	// BackendServer posts documents to a running pandoc-server.
	BackendServer ConversionBackend = "server"

	// BackendHTML reads sources that are already HTML.
	BackendHTML ConversionBackend = "html"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the conversion tool: pandoc, server, or html.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Image is the container image used by the pandoc backend.
	Image string `json:"image" yaml:"image"`

	// ServerURL is the pandoc-server endpoint used by the server backend.
	ServerURL string `json:"server_url" yaml:"server_url"`

	// Timeout bounds a single document conversion (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retries on HTTP 429 for the server backend.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// BuildConfig holds settings for a report build run.
type BuildConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`

	// ContentDir holds the report descriptor files.
	ContentDir string `json:"content_dir" yaml:"content_dir"`

	// PublicDir is the base directory that descriptor source paths resolve against.
	PublicDir string `json:"public_dir" yaml:"public_dir"`

	// OutputDir receives per-document JSON and the catalog.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// URLPrefix is prepended to "<slug>/<version>" to form catalog URLs.
	URLPrefix string `json:"url_prefix" yaml:"url_prefix"`

	// Workers limits concurrent document conversions (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// ExportYAML additionally writes index.yaml next to index.json.
	ExportYAML bool `json:"export_yaml" yaml:"export_yaml"`
}

// StoreConfig holds settings for the sqlite report store.
type StoreConfig struct {
	// Path is the sqlite database file.
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
