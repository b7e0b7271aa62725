// Package core holds the model every other leapdb package speaks.
//
// Tables and columns are declared once as package-level values. Conditions
// built from those columns form WHERE clauses, and a Statement collects
// the pieces that a dialect turns into SQL text plus ordered Parameters.
// Build errors such as ErrNoFields are returned, never panicked.
//
// core depends on the standard library only; dialects, adapters, db and
// schema all import it, never the other way round.
package core
