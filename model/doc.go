// Package model contains the declarative and persisted types used by the
// kuriosity engine: experiment definitions loaded into the catalog, the
// tracker state and precedence enumerations, research locations and the
// research reports emitted when an experiment completes.
//
// Definitions are immutable once loaded. Runtime types in the `runtime`
// sub-packages reference them by pointer and never copy them.
package model
