// Package analysis asks an external text-generation service for risk
// commentary on the arm's load state.
//
// Callers depend on the [Analyzer] interface. [Client] talks to a
// generateContent-style HTTP endpoint; a missing credential surfaces as
// [ErrNoCredentials] at call time rather than at construction.
//
// [Advise] never fails: any error, including a nil analyzer, becomes
// [Fallback] and is logged.
//
//	adv := analysis.Advise(ctx, client, analysis.SnapshotRequest(state), logger)
//	fmt.Println(adv.Text)
package analysis
