// Package compliance implements the compliance scoring engine for documents
// synced from the CRM to the cloud drive.
//
// # Evaluation Model
//
// The engine runs a fixed battery of independent checks against a document's
// facts (filename, size, optional metadata) and aggregates the detected
// issues into a deduction-weighted score:
//
//   - Size check: flags documents over the configured size limit
//   - Type check: flags extensions outside the allowed set
//   - Metadata check: flags missing category/confidentiality fields
//   - Retention check: flags expired or soon-to-expire documents
//
// Two further checks are callable outside the main evaluation and are folded
// in by callers (the audit sweep, the HTTP check endpoint) without affecting
// the document score:
//
//   - Link expiry check: flags expired or soon-to-expire share links
//   - Version count check: flags documents with too many stored versions
//
// # Scoring
//
// The score starts at 100 and each issue subtracts its deduction, floored at
// 0. A document passes iff no issue has severity critical. The type check
// carries its own deduction table (critical 50, high 30, otherwise 15),
// distinct from the tables used by the other checks.
//
// # Determinism
//
// The engine is side-effect-free and safe for concurrent use. Date-relative
// checks evaluate against an injectable clock (see WithClock), so results
// are reproducible under test.
//
// # Basic Usage
//
//	policy := compliance.NewPolicy(10*1024*1024, []string{"pdf", "docx", "xlsx"}, 365)
//	engine, err := compliance.New(policy)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := engine.CheckDocument("report.pdf", 1048576, &compliance.Metadata{
//	    Category:        "contracts",
//	    Confidentiality: "internal",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Passed, result.Score)
package compliance
