/*
Package status holds the outcome of a rewrite batch and renders it for people.

	            +-------------+
	            | BatchReport |
	            |  (Outcome)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Text    |           | JSON /  |
	| Reporter  |           |  YAML   |
	+-----------+           +---------+

🎯 Purpose:
- Records one FileOutcome per target, in input order
- Counts skipped, unchanged, rewritten and failed files
- Renders a per-file summary with warnings for rules that broke their policy
- Serializes the report so tooling does not have to parse prose

🔄 File lifecycle:

	pending -> not_found | undecodable          (terminal skip)
	pending -> unchanged                       (terminal no-op)
	pending -> rewritten | write_failed        (persist attempted)
	pending -> preview                         (dry run, nothing written)

Nothing in this package mutates a report after it has been built.
*/
package status
