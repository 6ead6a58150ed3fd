package record

// File represents the release record.
type File struct {
	Version     int              `yaml:"version"`
	RunID       string           `yaml:"run_id"`
	Release     string           `yaml:"release"`
	PreID       string           `yaml:"preid,omitempty"`
	Commit      string           `yaml:"commit,omitempty"`
	GeneratedAt string           `yaml:"generated_at"`
	ToolVersion string           `yaml:"tool_version"`
	DryRun      bool             `yaml:"dry_run,omitempty"`
	Units       map[string]*Unit `yaml:"units"`
	Skipped     []string         `yaml:"skipped,omitempty"`
}

// Unit records the publish outcome of a single unit.
type Unit struct {
	Package string `yaml:"package,omitempty"`
	Tag     string `yaml:"tag,omitempty"`
	Status  string `yaml:"status"`
	Error   string `yaml:"error,omitempty"`
}
