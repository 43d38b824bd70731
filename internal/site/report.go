package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Report file names written by Persist.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ParseWarning records one model rendered without its Info.
type ParseWarning struct {
	Model  string `json:"model"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// BuildReport captures high-level metrics about a site generation run.
type BuildReport struct {
	SchemaVersion int
	BuildID       string
	ModelsDir     string
	OutputDir     string
	Revision      string
	Start         time.Time
	End           time.Time

	Models        int // models discovered
	Folders       int // folders shown in the index tree
	Screenshots   int // models with a screenshot
	PagesWritten  int // detail pages plus the index
	FilesCopied   int // screenshots, model files and static assets
	ParseWarnings []ParseWarning

	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error // non-fatal stage issues
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome
}

func newBuildReport(modelsDir, outputDir string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		ModelsDir:       modelsDir,
		OutputDir:       outputDir,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// recordStage books the outcome of one stage; se is nil on success.
func (r *BuildReport) recordStage(name StageName, se *StageError) {
	sc := r.StageCounts[name]
	if se == nil {
		sc.Success++
		r.StageCounts[name] = sc
		return
	}
	r.StageErrorKinds[name] = se.Kind
	switch se.Kind {
	case StageErrorWarning:
		sc.Warning++
		r.Warnings = append(r.Warnings, se)
	case StageErrorCanceled:
		sc.Canceled++
		r.Errors = append(r.Errors, se)
	case StageErrorFatal:
		sc.Fatal++
		r.Errors = append(r.Errors, se)
	}
	r.StageCounts[name] = sc
}

func (r *BuildReport) finish() { r.End = time.Now() }

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("build=%s models=%d screenshots=%d pages=%d copied=%d parse_warnings=%d errors=%d warnings=%d duration=%s outcome=%s",
		r.BuildID, r.Models, r.Screenshots, r.PagesWritten, r.FilesCopied, len(r.ParseWarnings),
		len(r.Errors), len(r.Warnings), dur.Truncate(time.Millisecond), r.Outcome)
}

// deriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 || len(r.ParseWarnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes build-report.json and build-report.txt into dir. Each file is
// written to a temporary name and renamed into place.
func (r *BuildReport) Persist(dir string) error {
	if r.End.IsZero() {
		r.finish()
		r.deriveOutcome()
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}
	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, ReportJSONFile), append(jb, '\n')); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, ReportTextFile), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (r *BuildReport) serializable() *BuildReportSerializable {
	s := &BuildReportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		ModelsDir:       r.ModelsDir,
		OutputDir:       r.OutputDir,
		Revision:        r.Revision,
		Start:           r.Start,
		End:             r.End,
		Models:          r.Models,
		Folders:         r.Folders,
		Screenshots:     r.Screenshots,
		PagesWritten:    r.PagesWritten,
		FilesCopied:     r.FilesCopied,
		ParseWarnings:   r.ParseWarnings,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  make(map[string]int64, len(r.StageDurations)),
		StageErrorKinds: make(map[string]string, len(r.StageErrorKinds)),
		StageCounts:     make(map[string]StageCount, len(r.StageCounts)),
		Outcome:         string(r.Outcome),
	}
	if s.ParseWarnings == nil {
		s.ParseWarnings = []ParseWarning{}
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	for k, v := range r.StageDurations {
		s.StageDurations[k] = v.Milliseconds()
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	return s
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion   int                   `json:"schema_version"`
	BuildID         string                `json:"build_id"`
	ModelsDir       string                `json:"models_dir"`
	OutputDir       string                `json:"output_dir"`
	Revision        string                `json:"revision,omitempty"`
	Start           time.Time             `json:"start"`
	End             time.Time             `json:"end"`
	Models          int                   `json:"models"`
	Folders         int                   `json:"folders"`
	Screenshots     int                   `json:"screenshots"`
	PagesWritten    int                   `json:"pages_written"`
	FilesCopied     int                   `json:"files_copied"`
	ParseWarnings   []ParseWarning        `json:"parse_warnings"`
	Errors          []string              `json:"errors"`
	Warnings        []string              `json:"warnings"`
	StageDurations  map[string]int64      `json:"stage_durations_ms"`
	StageErrorKinds map[string]string     `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount `json:"stage_counts"`
	Outcome         string                `json:"outcome"`
}
