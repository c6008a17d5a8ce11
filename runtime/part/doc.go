// Package part implements the per part coordinator. A coordinator owns one
// controller per crew member seated in its part, ticks them, reacts to host
// lifecycle events and deprioritizes a completed experiment on every other
// controller aboard the same vessel.
package part
