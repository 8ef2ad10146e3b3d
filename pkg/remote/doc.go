/*
Package remote defines where downloaded files come from.

	+-------------+        +----------------+
	|  operation  | -----> | remote.Source  |
	+-------------+        +-------+--------+
	                               |
	                    +----------+----------+
	                    |                     |
	             ListTree (API)        FetchRaw (raw host)

🎯 Purpose:
- One recursive tree listing per branch
- Raw file bytes on demand
- Typed failures for non-success responses (ErrTreeFetchFailed, ErrDownloadFailed)

The github subpackage implements Source against api.github.com (through
go-github) and raw.githubusercontent.com. Both base URLs can be overridden,
which is how tests point it at an httptest server.

🔍 Example:

	src, err := github.New(github.Options{})
	listing, err := src.ListTree(ctx, "acme", "widgets", "main")
	data, err := src.FetchRaw(ctx, "acme", "widgets", "main", "README.md")
*/
package remote
