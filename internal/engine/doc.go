// Package engine runs rules over a parsed mission document in three phases:
//
//  1. Entities: a pre-order, depth-first walk of Mission.Entities. Every class
//     with a dataType string is passed to each EntityRule. Composite roles
//     (Group, Layer) are descended into through their own Entities class.
//  2. Links: every class under Mission.Connections.Links is passed to each
//     LinkRule. The container is optional.
//  3. Finalize: each rule returns its diagnostics, concatenated in
//     registration order.
//
// Rules own all mutable state; the document is only read.
package engine
