/*
Package config loads optional gitc settings from a file.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Picks a parser by file extension from a registry
- Applies defaults (batch size 10, GitHub endpoints)
- Rejects out-of-range values with ErrInvalidConfig

Command-line flags override anything loaded here.

🔍 Example:

	cfg, err := config.Load(ctx, "gitc.yaml")
	if err != nil {
		return err
	}
	dl := operation.New(src, operation.Options{BatchSize: cfg.BatchSize, Exclude: cfg.Exclude})
*/
package config
