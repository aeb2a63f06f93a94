// Package engine renders Django-syntax templates with pongo2 and applies
// render plans that write the results to disk.
//
// Variable lookup, filters, tags and escaping all belong to pongo2. In
// particular, a variable missing from the context renders as the empty
// string rather than failing, and HTML autoescaping is on unless the engine
// is configured otherwise.
//
// pongo2 registers filters and the autoescape flag globally, so engine setup
// happens once per process (see Configure). Everything after that is a pure
// function of the template and the context.
package engine
