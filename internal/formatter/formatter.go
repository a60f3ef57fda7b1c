// package formatter exports conversion reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tunebridge/internal/tasks"
)

// ExportToCSV converts a ConvertResult to CSV format with columns: Index, Query, Outcome, VideoID, Link, Confidence, LowConfidence, Error
func ExportToCSV(result *tasks.ConvertResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Index", "Query", "Outcome", "VideoID", "Link", "Confidence", "LowConfidence", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, r := range result.Results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		record := []string{
			strconv.Itoa(i + 1),
			r.Query,
			r.Outcome.String(),
			r.VideoID,
			r.Link,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
			strconv.FormatBool(r.LowConfidence),
			errText,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ConvertResult to a Markdown report, optionally
// including a published playlist link
func ExportToMarkdown(result *tasks.ConvertResult, pub *tasks.PublishResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Conversion Report\n\n")
	buf.WriteString(fmt.Sprintf("**Source**: %s\n", result.SourceURL))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", result.TotalQueries))
	buf.WriteString(fmt.Sprintf("**Matched**: %d (%.1f%%)\n", result.MatchedCount, result.MatchPercentage()))
	buf.WriteString(fmt.Sprintf("**No match**: %d\n", result.NoMatchCount))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n", result.FailedCount))

	if pub != nil {
		buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", pub.PlaylistURL))
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, r := range result.Results {
		switch r.Outcome {
		case tasks.OutcomeMatched:
			flag := ""
			if r.LowConfidence {
				flag = " (low confidence)"
			}
			buf.WriteString(fmt.Sprintf("%d. [%s](%s)%s\n", i+1, r.Query, r.Link, flag))
		case tasks.OutcomeNoMatch:
			buf.WriteString(fmt.Sprintf("%d. %s - no match\n", i+1, r.Query))
		case tasks.OutcomeFailed:
			buf.WriteString(fmt.Sprintf("%d. %s - failed: %v\n", i+1, r.Query, r.Err))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ConvertResult to plain text format
func ExportToText(result *tasks.ConvertResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Source: %s\n", result.SourceURL))
	buf.WriteString(fmt.Sprintf("Matched %d of %d tracks (%.1f%%)\n\n", result.MatchedCount, result.TotalQueries, result.MatchPercentage()))

	for i, r := range result.Results {
		switch r.Outcome {
		case tasks.OutcomeMatched:
			buf.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, r.Query, r.Link))
		case tasks.OutcomeNoMatch:
			buf.WriteString(fmt.Sprintf("%d. %s\n   no match\n", i+1, r.Query))
		case tasks.OutcomeFailed:
			buf.WriteString(fmt.Sprintf("%d. %s\n   failed: %v\n", i+1, r.Query, r.Err))
		}
	}

	return buf.Bytes(), nil
}

// WriteExport writes a conversion report to path in the format implied by its
// extension (.csv, .md, anything else defaults to plain text).
func WriteExport(result *tasks.ConvertResult, pub *tasks.PublishResult, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty export path")
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = ExportToCSV(result)
	case ".md":
		data, err = ExportToMarkdown(result, pub)
	default:
		data, err = ExportToText(result)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
