/*
Package operation runs a batch of rewrite targets against the file system.

	+-------------+
	|   Runner    |
	|   (Batch)   |
	+------+------+
	       |
	+------+------+
	|  Rewriter   |
	| (Transform) |
	+------+------+
	       |
	+------+------+
	| FileSystem  |
	|  (Persist)  |
	+-------------+

🎯 Purpose:
- Compiles every rule of every target before touching any file
- Loads, rewrites and persists one target at a time, in input order
- Captures per-file problems in the report instead of returning them

🔄 Flow:
1. New validates rules, patterns and the declared encoding (fatal on error)
2. Run loads each target; missing or undecodable files are skipped
3. The rewriter applies the target's rules in order
4. Changed buffers are written atomically over the original path
5. A status.BatchReport is returned with outcomes in input order

⚡ Concurrency:
Run is sequential by default. With Concurrency > 1 targets are grouped by path and
each group is handled by a single worker, so no two workers ever touch the same file.
Outcomes are stored by input index, so the report order never depends on scheduling.
*/
package operation
