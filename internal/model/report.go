package model

import "time"

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ViolationKind identifies the sandbox policy a store entry breaks.
type ViolationKind string

const (
	// ViolationSymlink marks a symbolic link found under a base while the
	// policy forbids symlinks.
	ViolationSymlink ViolationKind = "SYMLINK"

	// ViolationTraversalName marks an entry whose name fails sanitization
	// (traversal segments, absolute or drive-qualified forms).
	ViolationTraversalName ViolationKind = "TRAVERSAL_NAME"

	// ViolationOutsideBase marks an entry whose resolved location escapes
	// its base directory.
	ViolationOutsideBase ViolationKind = "OUTSIDE_BASE"

	// ViolationUnreadable marks an entry the auditor could not inspect.
	ViolationUnreadable ViolationKind = "UNREADABLE"
)

type Violation struct {
	ID          string        `json:"id"`
	Kind        ViolationKind `json:"kind"`
	Severity    Severity      `json:"severity"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Base        string        `json:"base"`
	Path        string        `json:"path,omitempty"`
	Target      string        `json:"target,omitempty"`
}

// Report is the result of auditing the configured base directories.
type Report struct {
	Bases      []string    `json:"bases"`
	Scanned    int         `json:"scanned"`
	Violations []Violation `json:"violations"`
	Summary    Summary     `json:"summary"`
	StartedAt  time.Time   `json:"started_at"`
	EndedAt    time.Time   `json:"ended_at"`
}

type Summary struct {
	Total      int                   `json:"total"`
	BySeverity map[Severity]int      `json:"by_severity"`
	ByKind     map[ViolationKind]int `json:"by_kind"`
}

// Summarize recomputes the report summary from its violations.
func (r *Report) Summarize() {
	s := Summary{
		Total:      len(r.Violations),
		BySeverity: make(map[Severity]int),
		ByKind:     make(map[ViolationKind]int),
	}
	for _, v := range r.Violations {
		s.BySeverity[v.Severity]++
		s.ByKind[v.Kind]++
	}
	r.Summary = s
}

// TemplateEntry describes a template stored locally.
type TemplateEntry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// RemoteTemplate is a template document served by the Tavnit cloud API.
type RemoteTemplate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Language  string `json:"language"`
	Direction string `json:"direction"`
	Content   string `json:"content"`
	UpdatedAt string `json:"updated_at"`
}

// RemoteTemplateList is a paginated listing from the cloud API.
type RemoteTemplateList struct {
	Templates []RemoteTemplate `json:"templates"`
	NextPage  string           `json:"next_page,omitempty"`
}

// Account is the authenticated account returned by the cloud API.
type Account struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Plan          string `json:"plan"`
	TemplateQuota int    `json:"template_quota"`
}
