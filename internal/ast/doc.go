// Package ast holds the parsed tree of a config document (mission.sqm,
// description.ext) and the read-only lookup primitives rules use on it.
//
// A Document is a sequence of Nodes. A Node is either a *Class (named, with
// ordered children) or an *Entry (named, with a Value). Values are String,
// Number (integer), Float, Array or Bare (unquoted text). Every node and value
// carries the span it was parsed from in the preprocessed text.
package ast
