// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text_test

import (
	"fmt"

	"github.com/walteh/rewriterc/pkg/text"
)

func ExampleReplace() {
	m, err := text.NewRegexMatcher(`const \{ (.+?) \} = useAuth0\(\);`, "", `const { \1 } = useAuth();`)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	out, n := text.Replace(m, "const { user, logout } = useAuth0();", 0)

	fmt.Printf("Modified: %s\n", out)
	fmt.Printf("Occurrences: %d\n", n)

	// Output:
	// Modified: const { user, logout } = useAuth();
	// Occurrences: 1
}

func ExampleLiteralMatcher() {
	m := text.NewLiteralMatcher("logout({ returnTo: window.location.origin })", "logout()")

	out, n := text.Replace(m, "onClick={() => logout({ returnTo: window.location.origin })}", 0)

	fmt.Println(out)
	fmt.Println(n)

	// Output:
	// onClick={() => logout()}
	// 1
}
