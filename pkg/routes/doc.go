/*
Package routes resolves navigation stack entries to the screens that render them.

A Table is built once from a domain.Config and is read-only afterwards, so it can be
shared by any number of goroutines. Resolution tries the index route, then an exact
key, then the "*" wildcard. MergeParams layers an entry's params over the screen's
defaults, and Scene adds the back-press arming the host needs to wire hardware back.
*/
package routes
