package site

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_DeriveOutcome(t *testing.T) {
	r := newBuildReport("m", "s")
	r.deriveOutcome()
	assert.Equal(t, OutcomeSuccess, r.Outcome)

	r.ParseWarnings = append(r.ParseWarnings, ParseWarning{Model: "A"})
	r.deriveOutcome()
	assert.Equal(t, OutcomeWarning, r.Outcome)

	r.Errors = append(r.Errors, errors.New("plain"))
	r.deriveOutcome()
	assert.Equal(t, OutcomeFailed, r.Outcome)
}

func TestBuildReport_Persist(t *testing.T) {
	r := newBuildReport("/models", "/site")
	r.Models = 3
	r.StageDurations[string(StageScanModels)] = 1500 * time.Millisecond
	r.recordStage(StageScanModels, nil)
	r.recordStage(StageParseModels, newWarnStageError(StageParseModels, ErrInfoDegraded))

	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, r.Persist(dir))
	assert.False(t, r.End.IsZero(), "Persist finishes an open report")

	data, err := os.ReadFile(filepath.Join(dir, ReportJSONFile))
	require.NoError(t, err)
	var parsed BuildReportSerializable
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, 1, parsed.SchemaVersion)
	assert.Equal(t, r.BuildID, parsed.BuildID)
	assert.Equal(t, 3, parsed.Models)
	assert.Equal(t, "warning", parsed.Outcome)
	assert.Equal(t, int64(1500), parsed.StageDurations["scan_models"])
	assert.Equal(t, "warning", parsed.StageErrorKinds["parse_models"])
	assert.Equal(t, 1, parsed.StageCounts["scan_models"].Success)
	assert.Equal(t, []ParseWarning{}, parsed.ParseWarnings)
	require.Len(t, parsed.Warnings, 1)
	assert.Contains(t, parsed.Warnings[0], "models rendered without info")

	summary, err := os.ReadFile(filepath.Join(dir, ReportTextFile))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "build="+r.BuildID)
	assert.Contains(t, string(summary), "models=3")

	_, err = os.Stat(filepath.Join(dir, ReportJSONFile+".tmp"))
	assert.True(t, os.IsNotExist(err))
}
