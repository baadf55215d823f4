// Package governance applies data governance policies to search results:
// role checks, row filtering, field denial and sensitive-field masking,
// with structured audit records for every governed request.
//
// # Policies
//
// Policies are keyed by index, with "*" acting as the default. A policy can
// restrict an index to named roles, drop rows through a RowFilter, remove
// fields outright, and mask the rest with one of four strategies: Redact,
// Partial, Hash and Email. With AutoDetect enabled, fields whose name or
// value looks like a credential, email, phone number, card number or SSN
// are masked even when the policy does not list them.
//
// # Direct Usage
//
//	engine := governance.NewEngine(governance.Config{
//	    Policies: map[string]governance.Policy{
//	        "patients": {
//	            AllowedRoles: []string{"clinician"},
//	            MaskFields:   []governance.FieldRule{{Field: "ssn", Mask: governance.MaskHash}},
//	            AutoDetect:   true,
//	        },
//	    },
//	}, governance.NewZapSink(zapLogger))
//
//	governed, err := engine.ApplyToResults(ctx, actor, "patients", results)
//
// Results passed in are never mutated; governed rows are copies, so it is
// safe to govern values that also live in a cache.
//
// # Audit
//
// Each ApplyToResults call emits one Record to every configured Sink.
// ZapSink logs records; Archiver batches them and flushes JSON-lines
// objects to S3-compatible storage under time-partitioned keys.
package governance
