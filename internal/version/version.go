// Package version contains the version string shared by this module's cmd
// tools. It is split out so both can report the same value without
// depending on each other.
package version

// Current is the string representing the current version of packrat.
const Current = "0.1.0"
