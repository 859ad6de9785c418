package types

// LatticeConfig holds the geometric tolerances (in PDF points) used when
// rebuilding a table grid from ruling lines.
type LatticeConfig struct {
	// SnapTolerance merges parallel rulings closer than this distance.
	SnapTolerance float64 `json:"snap_tolerance" yaml:"snap_tolerance" mapstructure:"snap_tolerance"`

	// JoinTolerance joins collinear rulings separated by a gap up to this size.
	JoinTolerance float64 `json:"join_tolerance" yaml:"join_tolerance" mapstructure:"join_tolerance"`

	// IntersectionTolerance is how far a ruling may fall short of another
	// and still be considered to cross it.
	IntersectionTolerance float64 `json:"intersection_tolerance" yaml:"intersection_tolerance" mapstructure:"intersection_tolerance"`

	// MinEdgeLength drops rulings shorter than this (tick marks, glyph strokes).
	MinEdgeLength float64 `json:"min_edge_length" yaml:"min_edge_length" mapstructure:"min_edge_length"`
}

// ExtractionConfig holds settings for the extract stage.
type ExtractionConfig struct {
	// AllTables maps every ruled table on a page instead of only the largest.
	AllTables bool `json:"all_tables" yaml:"all_tables" mapstructure:"all_tables"`

	// MinColumns discards tables narrower than this (default 3).
	MinColumns int `json:"min_columns" yaml:"min_columns" mapstructure:"min_columns"`

	// KeepShadowedColumns keeps columns that lost a role to an earlier
	// column as "<role>:<label>" attributes instead of dropping them.
	KeepShadowedColumns bool `json:"keep_shadowed_columns" yaml:"keep_shadowed_columns" mapstructure:"keep_shadowed_columns"`

	// Indent is the number of spaces used to pretty-print output JSON (default 4).
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent"`

	Lattice LatticeConfig `json:"lattice" yaml:"lattice" mapstructure:"lattice"`
}

// CatalogConfig holds settings for the catalog index.
type CatalogConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// ExportDir receives export.yaml, export.json and export.xlsx.
	ExportDir string `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`    // "debug", "info", ...
	Format string `json:"format" yaml:"format" mapstructure:"format"` // "text" or "json"
}

// PipelineConfig groups all configuration for the pricelist-engine CLI.
type PipelineConfig struct {
	// InputDir is scanned (non-recursively) for PDF price lists.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives one <stem>_data.json file per PDF.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// VocabularyFile optionally overrides the built-in column vocabulary.
	VocabularyFile string `json:"vocabulary_file" yaml:"vocabulary_file" mapstructure:"vocabulary_file"`

	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
}
