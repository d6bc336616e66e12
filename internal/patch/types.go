package patch

import "regexp"

// Kind identifies which addressing scheme a patch uses.
type Kind int

const (
	KindInvalid Kind = iota
	KindLine         // replace one line addressed by number
	KindPattern      // replace a regex match
	KindContext      // replace a literal block of lines
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindPattern:
		return "pattern"
	case KindContext:
		return "context"
	default:
		return "invalid"
	}
}

// Patch is a single edit directive. Exactly one variant must be set:
//
//   - Line:    LineNumber (1-based) + Content
//   - Pattern: Find (Go regexp) + Replace ($1-style capture templates)
//   - Context: Context lines + Replacement lines
//
// Occurrence selects among multiple matches for Pattern and Context
// patches; zero means "require a unique match".
type Patch struct {
	LineNumber int    `json:"line,omitempty"`
	Content    string `json:"content,omitempty"`

	Find    string `json:"find,omitempty"`
	Replace string `json:"replace,omitempty"`

	Context     []string `json:"context,omitempty"`
	Replacement []string `json:"replacement,omitempty"`

	Occurrence int `json:"occurrence,omitempty"`
}

// Kind returns the variant this patch encodes, or KindInvalid when the
// discriminating fields are absent or conflicting.
func (p Patch) Kind() Kind {
	set := 0
	kind := KindInvalid
	if p.LineNumber != 0 {
		set++
		kind = KindLine
	}
	if p.Find != "" {
		set++
		kind = KindPattern
	}
	if len(p.Context) > 0 {
		set++
		kind = KindContext
	}
	if set != 1 {
		return KindInvalid
	}
	return kind
}

// Validate checks structural well-formedness. Matching failures are
// not validation failures; those surface during application.
func (p Patch) Validate() error {
	switch p.Kind() {
	case KindLine:
		if p.LineNumber < 1 {
			return newError(CodeInvalidPatch, "line number must be positive, got %d", p.LineNumber)
		}
		if p.Occurrence != 0 {
			return newError(CodeInvalidPatch, "occurrence is not valid for a line patch")
		}
	case KindPattern:
		if _, err := regexp.Compile(p.Find); err != nil {
			return newError(CodeInvalidPatch, "invalid pattern %q: %v", p.Find, err)
		}
		if p.Occurrence < 0 {
			return newError(CodeInvalidPatch, "occurrence must be positive, got %d", p.Occurrence)
		}
	case KindContext:
		if p.Occurrence < 0 {
			return newError(CodeInvalidPatch, "occurrence must be positive, got %d", p.Occurrence)
		}
	default:
		return newError(CodeInvalidPatch, "patch must set exactly one of line, find, or context")
	}
	return nil
}

// Request is one atomic unit of work against a single file. Patches
// are applied strictly in order against one evolving buffer; a later
// patch sees the effect of every earlier one.
type Request struct {
	Path         string  `json:"path"`
	Patches      []Patch `json:"patches"`
	DryRun       bool    `json:"dry_run,omitempty"`
	CreateBackup bool    `json:"create_backup,omitempty"`
}

// Status classifies a per-patch outcome.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the result of applying one patch.
type Outcome struct {
	Status       Status `json:"status"`
	LinesChanged int    `json:"lines_changed,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Result aggregates the outcomes of one request. On failure the
// Outcomes list stops at the offending patch; the persisted file is
// guaranteed byte-identical to its pre-request state unless Success
// is true and DryRun was false.
type Result struct {
	Outcomes   []Outcome `json:"outcomes"`
	Success    bool      `json:"success"`
	Diff       string    `json:"diff,omitempty"`
	BackupPath string    `json:"backup_path,omitempty"`
}
