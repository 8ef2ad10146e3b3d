/*
Package operation downloads what a reference points at.

	+-------------+
	|  Downloader |
	+------+------+
	       |
	+------+------+------------------+
	|             |                  |
	File        Tree             RunBatches
	(raw)   (list, filter)    (errgroup per batch)

🎯 Purpose:
- Single file: fetch the raw bytes and write <output>/<name>
- Subtree or whole repository: list once, keep the blobs under the path,
  then fetch and write them in fixed-size batches
- Report every file on the console and return a Result summary

🔄 Flow:
1. ListTree on the branch (failure stops here, nothing is fetched)
2. FilterEntries keeps blobs under "<path>/" and drops excluded globs
3. Base dir is the last path segment, or the repository name
4. RunBatches fetches BatchSize files at a time; batches never overlap
5. The first failure is returned once its batch finishes; later batches never start

Files written before a failure stay on disk. Rerunning overwrites them with the
same content and reports them as unchanged.

🔍 Example:

	dl := operation.New(src, operation.Options{OutputDir: "out", BatchSize: 10})
	result, err := dl.Run(ctx, ref)
*/
package operation
