package linkfilter

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/iolinks/internal/iolink"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Filter is a compiled link predicate. A nil *Filter matches every link.
type Filter struct {
	expr   hcl.Expression
	source string
}

// Compile parses src as an HCL expression. An empty src yields a nil Filter.
func Compile(src string) (*Filter, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "where", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse filter %q: %w", src, diags)
	}
	return &Filter{expr: expr, source: src}, nil
}

// New wraps an expression that was already parsed, for example from a
// configuration file. An expression that is statically null yields a nil
// Filter.
func New(expr hcl.Expression) *Filter {
	if expr == nil || isNull(expr) {
		return nil
	}
	return &Filter{expr: expr, source: expr.Range().String()}
}

func isNull(expr hcl.Expression) bool {
	if len(expr.Variables()) > 0 {
		return false
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.IsNull()
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match evaluates the filter against an initialized link.
func (f *Filter) Match(link iolink.Link) (bool, error) {
	if f == nil {
		return true, nil
	}

	val, diags := f.expr.Value(evalContext(link))
	if diags.HasErrors() {
		return false, fmt.Errorf("failed to evaluate filter on %s: %w", link, diags)
	}

	boolVal, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("filter must produce a bool, got %s: %w", val.Type().FriendlyName(), err)
	}
	if boolVal.IsNull() || !boolVal.IsKnown() {
		return false, fmt.Errorf("filter produced no value for %s", link)
	}

	var matched bool
	if err := gocty.FromCtyValue(boolVal, &matched); err != nil {
		return false, err
	}
	return matched, nil
}

// Apply keeps the links that match, preserving order.
func (f *Filter) Apply(links []iolink.Link) ([]iolink.Link, error) {
	if f == nil {
		return links, nil
	}
	kept := make([]iolink.Link, 0, len(links))
	for _, l := range links {
		ok, err := f.Match(l)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, l)
		}
	}
	return kept, nil
}

func evalContext(link iolink.Link) *hcl.EvalContext {
	props := link.Properties()
	vars := make(map[string]cty.Value, len(props)+3)
	for name, v := range props {
		vars[name] = cty.NumberUIntVal(v)
	}
	vars["type_name"] = cty.StringVal(link.Type().String())
	vars["node"] = cty.NumberUIntVal(uint64(link.Node()))
	vars["link"] = cty.NumberUIntVal(uint64(link.Index()))
	return &hcl.EvalContext{Variables: vars}
}
