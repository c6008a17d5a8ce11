// Package host declares the collaborators the kuriosity engine consumes from
// the surrounding simulation: crew roster and part topology, vessel science
// context, the tech tree, the research report archive, per-vessel science
// storage and user notifications.
//
// The engine never reaches into host internals; every capability it needs is
// expressed as one of the narrow interfaces below.
package host
