// Package criteria evaluates dao list parameters.
package criteria

// PartID is the parameter selecting snapshots that contain a part.
const PartID = "PartID"
