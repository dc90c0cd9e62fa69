// Package marketplace composes the access-control, catalog, and exchange
// modules into the single marketplace operation set. The facade owns the
// cross-module wiring: role checks gate catalog writes, the catalog resolves
// ownership contracts for the trading books, and one custody account anchors
// escrow and item transfers.
package marketplace
