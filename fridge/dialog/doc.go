// Package dialog implements the fridge conversation as a hierarchy of state machines.
//
// The top-level Machine owns the action menu and the show view. Choosing Add or Change
// hands the session to a Selector (location, then item on the Change path), which in turn
// hands it to an Editor that loops between picking a feature and typing its value. A child
// that finishes yields a Result; the parent consumes it and returns to the action menu.
//
// The package performs no I/O. Each call consumes one Event and produces a Response that
// the transport renders.
package dialog
