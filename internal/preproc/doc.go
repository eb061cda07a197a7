// Package preproc runs the config preprocessor over description.ext and
// mission.sqm files.
//
// Supported: // and /* */ comments, #include "file" (relative to the including
// file), object-like and function-like #define with ## pasting, #undef,
// #ifdef / #ifndef / #else / #endif. The output text is registered in the
// FileSet as a virtual file; Processed maps every output offset back to the
// file and offset it came from.
package preproc
