package duckdb

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Params is the target.params block of a duckdb target.
type Params struct {
	// Extensions are installed and loaded in order, e.g. json or icu.
	Extensions []string `mapstructure:"extensions"`
	// Settings are applied with SET after connecting.
	Settings map[string]string `mapstructure:"settings"`
}

// ParseParams decodes raw and checks that every extension and setting is a
// plain identifier. Unknown keys are rejected; scalar values are coerced.
func ParseParams(raw map[string]any) (*Params, error) {
	params := &Params{}
	if len(raw) > 0 {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           params,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, fmt.Errorf("decode duckdb params: %w", err)
		}
	}

	for _, ext := range params.Extensions {
		if !identifierPattern.MatchString(ext) {
			return nil, fmt.Errorf("invalid duckdb extension name %q", ext)
		}
	}
	for name := range params.Settings {
		if !identifierPattern.MatchString(name) {
			return nil, fmt.Errorf("invalid duckdb setting name %q", name)
		}
	}
	return params, nil
}

// Statements lists INSTALL and LOAD per extension, then one SET per
// setting in key order.
func (p *Params) Statements() []string {
	stmts := make([]string, 0, 2*len(p.Extensions)+len(p.Settings))
	for _, ext := range p.Extensions {
		stmts = append(stmts, "INSTALL "+ext, "LOAD "+ext)
	}

	names := make([]string, 0, len(p.Settings))
	for name := range p.Settings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stmts = append(stmts, "SET "+name+" = '"+strings.ReplaceAll(p.Settings[name], "'", "''")+"'")
	}
	return stmts
}
