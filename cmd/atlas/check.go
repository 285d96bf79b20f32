package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"crmvault-hq/atlas/pkg/compliance"
	"github.com/spf13/cobra"
)

var checkFlags struct {
	filename        string
	sizeBytes       int64
	category        string
	confidentiality string
	retentionDate   string
	noMetadata      bool
	linkExpiresAt   string
	versionCount    int
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a single document against the compliance policy",
	Long: `Check a single document against the configured compliance policy and print
the result as JSON.

Examples:
  # Check a document with metadata
  atlas check --filename report.pdf --size 1048576 \
    --category contracts --confidentiality internal \
    --retention-date 2027-06-01

  # Check a document with no metadata at all
  atlas check --filename notes.txt --size 2048 --no-metadata

  # Include share-link and version advisories
  atlas check --filename report.pdf --size 1048576 \
    --link-expires-at 2026-09-05 --versions 12`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.filename, "filename", "f", "", "document filename including extension (required)")
	checkCmd.Flags().Int64VarP(&checkFlags.sizeBytes, "size", "s", 0, "document size in bytes (required)")
	checkCmd.Flags().StringVar(&checkFlags.category, "category", "", "metadata category")
	checkCmd.Flags().StringVar(&checkFlags.confidentiality, "confidentiality", "", "metadata confidentiality level")
	checkCmd.Flags().StringVar(&checkFlags.retentionDate, "retention-date", "", "retention date (RFC 3339 or YYYY-MM-DD)")
	checkCmd.Flags().BoolVar(&checkFlags.noMetadata, "no-metadata", false, "treat the document as having no metadata record")
	checkCmd.Flags().StringVar(&checkFlags.linkExpiresAt, "link-expires-at", "", "share link expiry (RFC 3339 or YYYY-MM-DD)")
	checkCmd.Flags().IntVar(&checkFlags.versionCount, "versions", 0, "stored version count")

	_ = checkCmd.MarkFlagRequired("filename")
	_ = checkCmd.MarkFlagRequired("size")
}

// checkOutput is the JSON document printed by the check command.
type checkOutput struct {
	Passed bool               `json:"passed"`
	Score  int                `json:"score"`
	Issues []compliance.Issue `json:"issues"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, err := compliance.New(cfg.Compliance.Policy())
	if err != nil {
		return fmt.Errorf("failed to create compliance engine: %w", err)
	}

	var meta *compliance.Metadata
	if !checkFlags.noMetadata {
		meta = &compliance.Metadata{
			Category:        checkFlags.category,
			Confidentiality: checkFlags.confidentiality,
		}
		if checkFlags.retentionDate != "" {
			retention, err := parseTimeFlag(checkFlags.retentionDate)
			if err != nil {
				return fmt.Errorf("invalid --retention-date: %w", err)
			}
			meta.RetentionDate = &retention
		}
	}

	result, err := engine.CheckDocument(checkFlags.filename, checkFlags.sizeBytes, meta)
	if err != nil {
		return err
	}

	issues := result.Issues
	if checkFlags.linkExpiresAt != "" {
		expiresAt, err := parseTimeFlag(checkFlags.linkExpiresAt)
		if err != nil {
			return fmt.Errorf("invalid --link-expires-at: %w", err)
		}
		if issue := engine.CheckLinkExpiry(&expiresAt); issue != nil {
			issues = append(issues, *issue)
		}
	}
	if cmd.Flags().Changed("versions") {
		issue, err := engine.CheckVersionCount(checkFlags.versionCount, 0)
		if err != nil {
			return err
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}
	if issues == nil {
		issues = []compliance.Issue{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(checkOutput{
		Passed: result.Passed,
		Score:  result.Score,
		Issues: issues,
	}); err != nil {
		return err
	}

	if !result.Passed {
		os.Exit(1)
	}
	return nil
}

// parseTimeFlag accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseTimeFlag(val string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", val)
}
