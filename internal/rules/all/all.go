// Package all imports all rule packages to register them.
// Import this package with a blank identifier to enable all rules:
//
//	import _ "github.com/tinovyatkin/ziglint/internal/rules/all"
package all

import (
	// Import all rule packages to trigger their init() registration
	_ "github.com/tinovyatkin/ziglint/internal/rules/emptyblock"
	_ "github.com/tinovyatkin/ziglint/internal/rules/indentstyle"
	_ "github.com/tinovyatkin/ziglint/internal/rules/maxfilelines"
	_ "github.com/tinovyatkin/ziglint/internal/rules/noshadowparam"
	_ "github.com/tinovyatkin/ziglint/internal/rules/undefinedvar"
	_ "github.com/tinovyatkin/ziglint/internal/rules/unusedvariable"
)
