/*
Package status writes downloaded files to disk and tracks what happened to each one.

	            +-------------+
	            |   Manager   |
	            |  (base dir) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|   Files   |           | Progress  |
	| (atomic)  |           |  (pterm)  |
	+-----------+           +-----------+

🎯 Purpose:
- Writes files relative to a base directory
- Creates parent directories idempotently
- Classifies every write as new, modified or unchanged (SHA-256)
- Reports progress while a batch download runs

🔄 Flow:
1. Operation fetches bytes from the remote
2. WriteFile writes them to a temp file next to the target and renames it
3. The resulting FileInfo is tracked and returned to the caller
4. ListFiles/TotalBytes feed the final summary

⚡ Notes:
- Concurrent writes to the same path are safe; the last rename wins
- Paths that leave the base directory are rejected with ErrPathEscapesBase

🔍 Example:

	mgr := status.New("out/lib", status.WithProgress(os.Stderr))
	mgr.StartOperation(ctx, len(entries))
	info, err := mgr.WriteFile(ctx, "sub/b.ts", data)
	mgr.UpdateProgress(ctx, 1)
	mgr.FinishOperation(ctx)
*/
package status
