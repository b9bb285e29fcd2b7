// Package rows partitions blobs into spatially coherent rows.
//
// The main strategy, DistanceGrouper, grows each row transitively from a seed
// blob: every newly admitted blob looks for its nearest unassigned neighbours,
// and a neighbour joins the row while its distance stays below a multiple of
// the mean distance accepted so far. Sprocket holes are near-periodic, so the
// spacing inside a row varies far less than the gap between the two rows and
// the gap stops the expansion.
//
// The rule is greedy and deterministic. It yields a locally consistent
// partition, not a globally optimal one.
//
// Strategies implement Grouper and share one contract: every input blob
// appears in exactly one returned group.
package rows
