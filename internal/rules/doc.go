// Package rules implements the mission checks run by the engine.
//
// Each constructor returns a fresh rule with private state; a rule instance
// serves exactly one engine run.
package rules
