// Package config loads rewrite rule sets and expands them into file targets.
//
//	            +-------------+
//	            |   Config    |
//	            |  (Rule set) |
//	            +------+------+
//	                   |
//	      +-----------+-----------+-----------+
//	      |           |           |           |
//	+-----+-----+ +---+---+ +-----+-----+     |
//	|    HCL    | | YAML  | |   JSON    |     |
//	|  Parser   | | Parser| |  Parser   |     |
//	+-----------+ +-------+ +-----------+     |
//	                                    +-----+-----+
//	                                    |  Targets  |
//	                                    | (globs)   |
//	                                    +-----------+
//
// 🎯 Purpose:
// - Declares named rules once and reuses them across targets
// - Keeps rule order per target exactly as written
// - Expands doublestar globs into concrete paths; literal paths are kept even when
//   the file does not exist so the batch can report them as skipped
// - Restricts rules to matching paths with "only" globs
//
// 🔍 Example (HCL):
//
//	encoding = "utf-8"
//
//	rule "auth0-import" {
//	  kind        = "regex"
//	  pattern     = "import \\{ useAuth0 \\} from '@auth0/auth0-react';"
//	  replacement = "import { useAuth } from '../contexts/useAuth';"
//	  policy      = "zero_or_one"
//	}
//
//	target {
//	  paths = ["src/components/**/*.jsx", "src/pages/*.jsx"]
//	  rules = ["auth0-import"]
//	}
//
// HCL treats "${" as interpolation, so write "$${1}" for a Go-style group reference or
// use the \1 form.
package config
