// Package registry keeps the ordered set of field controllers attached to
// a form.
//
// The registry is an arena of slots indexed by render position. Every
// render declares how many children the form has (Sync); each child then
// attaches its controller at its own position and detaches it when it
// unmounts. A slot may be vacant at any time: before its child attaches,
// after it detaches, or between a re-render and the re-attach. Readers
// (Live, Lookup, Index) skip vacant slots, so a caller never sees a
// dangling controller.
//
// Capabilities are probed once, when a controller is attached; see the
// field package for the capability interfaces.
package registry
