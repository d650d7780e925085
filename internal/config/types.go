package config

// ScanConfig は設定レイヤ 1 枚分の走査設定です。未設定（nil）の項目は
// 下位レイヤの値をそのまま使います。
type ScanConfig struct {
	OriginalDomain *string   `yaml:"original_domain" toml:"original_domain" json:"original_domain"`
	NewDomain      *string   `yaml:"new_domain" toml:"new_domain" json:"new_domain"`
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	Extensions     *[]string `yaml:"extensions" toml:"extensions" json:"extensions"`
	Write          *bool     `yaml:"write" toml:"write" json:"write"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	Root           *string   `yaml:"root" toml:"root" json:"root"`
}

type UIConfig struct {
	Output *string `yaml:"output" toml:"output" json:"output"`
	Color  *string `yaml:"color" toml:"color" json:"color"`
	Fields *string `yaml:"fields" toml:"fields" json:"fields"`
}

type Config struct {
	Scan ScanConfig `yaml:"scan" toml:"scan" json:"scan"`
	UI   UIConfig   `yaml:"ui" toml:"ui" json:"ui"`
}

// ScanSettings はレイヤを畳み込んだ後の確定値です。
type ScanSettings struct {
	OriginalDomain string
	NewDomain      string
	Paths          []string
	Excludes       []string
	Extensions     []string
	Write          bool
	Jobs           int
	MaxFileBytes   int
	Root           string
}

type UISettings struct {
	Output string
	Color  string
	Fields string
}
