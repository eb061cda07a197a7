// Package mission reviews one mission folder: it loads mission.sqm and the
// description.ext pair, picks the checks for the template version and
// mission type, and runs them.
package mission
