package model

// ObjectKind identifies which variant of resolved metadata a value carries.
type ObjectKind string

const (
	// KindTest identifies test metadata.
	KindTest ObjectKind = "test"
	// KindPlan identifies plan metadata.
	KindPlan ObjectKind = "plan"
	// KindTestPlan identifies a combined test and plan pair.
	KindTestPlan ObjectKind = "testplan"
)

// Object is the closed union of resolved metadata variants handed to the
// formatter. It is a read-only projection of external repository metadata,
// produced fresh per request and never cached.
type Object interface {
	Kind() ObjectKind
}

// FmfID identifies the canonical coordinates of a metadata object within
// its source repository.
type FmfID struct {
	Name string `json:"name"           yaml:"name"`
	URL  string `json:"url,omitempty"  yaml:"url,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Ref  string `json:"ref,omitempty"  yaml:"ref,omitempty"`
}

// TestMetadata is the projection of a tmt test node.
type TestMetadata struct {
	Name        string         `json:"name"                  yaml:"name"`
	Summary     string         `json:"summary,omitempty"     yaml:"summary,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Contact     []string       `json:"contact,omitempty"     yaml:"contact,omitempty"`
	Component   []string       `json:"component,omitempty"   yaml:"component,omitempty"`
	Enabled     *bool          `json:"enabled,omitempty"     yaml:"enabled,omitempty"`
	Environment map[string]any `json:"environment,omitempty" yaml:"environment,omitempty"`
	Duration    string         `json:"duration,omitempty"    yaml:"duration,omitempty"`
	Framework   string         `json:"framework"             yaml:"framework,omitempty"`
	Manual      *bool          `json:"manual,omitempty"      yaml:"manual,omitempty"`
	Path        string         `json:"path,omitempty"        yaml:"path,omitempty"`
	Tier        string         `json:"tier,omitempty"        yaml:"tier,omitempty"`
	Order       *int           `json:"order,omitempty"       yaml:"order,omitempty"`
	ID          string         `json:"id,omitempty"          yaml:"id,omitempty"`
	Link        []any          `json:"link,omitempty"        yaml:"link,omitempty"`
	Tag         []string       `json:"tag,omitempty"         yaml:"tag,omitempty"`
	FmfID       *FmfID         `json:"fmf-id,omitempty"      yaml:"fmf-id,omitempty"`
	Extra       map[string]any `json:"extra_data,omitempty"  yaml:"extra_data,omitempty"`
}

// Kind implements Object.
func (*TestMetadata) Kind() ObjectKind { return KindTest }

// PlanMetadata is the projection of a tmt plan node.
type PlanMetadata struct {
	Name        string           `json:"name"                  yaml:"name"`
	Summary     string           `json:"summary,omitempty"     yaml:"summary,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Prepare     []map[string]any `json:"prepare,omitempty"     yaml:"prepare,omitempty"`
	Execute     []map[string]any `json:"execute,omitempty"     yaml:"execute,omitempty"`
	Finish      []map[string]any `json:"finish,omitempty"      yaml:"finish,omitempty"`
	Discover    map[string]any   `json:"discover,omitempty"    yaml:"discover,omitempty"`
	Provision   map[string]any   `json:"provision,omitempty"   yaml:"provision,omitempty"`
	Report      map[string]any   `json:"report,omitempty"      yaml:"report,omitempty"`
	Enabled     *bool            `json:"enabled,omitempty"     yaml:"enabled,omitempty"`
	Path        string           `json:"path,omitempty"        yaml:"path,omitempty"`
	Order       *int             `json:"order,omitempty"       yaml:"order,omitempty"`
	ID          string           `json:"id,omitempty"          yaml:"id,omitempty"`
	Link        []any            `json:"link,omitempty"        yaml:"link,omitempty"`
	Tag         []string         `json:"tag,omitempty"         yaml:"tag,omitempty"`
	FmfID       *FmfID           `json:"fmf-id,omitempty"      yaml:"fmf-id,omitempty"`
	Extra       map[string]any   `json:"extra_data,omitempty"  yaml:"extra_data,omitempty"`
}

// Kind implements Object.
func (*PlanMetadata) Kind() ObjectKind { return KindPlan }

// TestPlanMetadata pairs a test with a plan when both are requested.
type TestPlanMetadata struct {
	Test *TestMetadata `json:"test" yaml:"test"`
	Plan *PlanMetadata `json:"plan" yaml:"plan"`
}

// Kind implements Object.
func (*TestPlanMetadata) Kind() ObjectKind { return KindTestPlan }
