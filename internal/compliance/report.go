package compliance

import (
	"encoding/json"
	"fmt"
)

const reportIndentation = "  "

// ScanReport is the interchange value produced by a fleet scan. It is consumed
// directly by remediation or reporting without re-scanning.
type ScanReport struct {
	Owner        string             `json:"org"`
	LatestTag    string             `json:"latest_tag"`
	LatestSHA    string             `json:"latest_sha"`
	Repositories []ComplianceResult `json:"repos"`
}

// CanonicalPin returns the pin the scan classified against.
func (report ScanReport) CanonicalPin() VersionPin {
	return VersionPin{Tag: report.LatestTag, SHA: report.LatestSHA}
}

// ScanTally aggregates per-repository classifications for summaries.
type ScanTally struct {
	Current      int
	Drifted      int
	Unconfigured int
}

// Tally counts current, drifted, and unconfigured repositories.
func (report ScanReport) Tally() ScanTally {
	tally := ScanTally{}
	for _, repositoryResult := range report.Repositories {
		switch {
		case !repositoryResult.HasDeclaredState:
			tally.Unconfigured++
		case repositoryResult.IsCurrent:
			tally.Current++
		default:
			tally.Drifted++
		}
	}
	return tally
}

// EncodeJSON renders the report as indented JSON with a trailing newline.
func (report ScanReport) EncodeJSON() ([]byte, error) {
	encoded, encodeError := json.MarshalIndent(report, "", reportIndentation)
	if encodeError != nil {
		return nil, fmt.Errorf("encode scan report: %w", encodeError)
	}
	return append(encoded, '\n'), nil
}

// DecodeScanReport parses a previously saved interchange document.
func DecodeScanReport(payload []byte) (ScanReport, error) {
	var report ScanReport
	if decodeError := json.Unmarshal(payload, &report); decodeError != nil {
		return ScanReport{}, fmt.Errorf("decode scan report: %w", decodeError)
	}
	return report, nil
}
