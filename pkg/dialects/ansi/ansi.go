// Package ansi registers the base dialect: default type text and ?
// placeholders. Engines without a dedicated dialect render with it.
package ansi

import (
	"github.com/leapstack-labs/leapdb/pkg/core"
	"github.com/leapstack-labs/leapdb/pkg/dialect"
)

// ANSI is the base dialect.
var ANSI = dialect.NewDialect("ansi").
	PlaceholderStyle(core.PlaceholderQuestion).
	Build()

func init() { dialect.Register(ANSI) }
