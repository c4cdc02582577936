package udyr

import (
	mdwast "github.com/msto63/udyr/foundation/udyr/ast"
	"github.com/msto63/udyr/foundation/udyr/diag"
	"github.com/msto63/udyr/foundation/udyr/token"
)

// The map forms below use only maps, slices, strings, float64, int, bool
// and nil so they encode unchanged as JSON, YAML and protobuf Struct.

// TokenMap converts a token into its map form
func TokenMap(t token.Token) map[string]interface{} {
	return map[string]interface{}{
		"kind":    t.Kind.String(),
		"lexeme":  t.Lexeme,
		"literal": t.PlainLiteral(),
		"line":    t.Line,
	}
}

// DiagnosticMap converts a diagnostic into its map form
func DiagnosticMap(d diag.Diagnostic) map[string]interface{} {
	return map[string]interface{}{
		"line":    d.Line,
		"message": d.Message,
		"where":   d.Where,
		"code":    string(d.Code),
		"text":    d.String(),
	}
}

// TokensMap converts a token slice
func TokensMap(tokens []token.Token) []interface{} {
	out := make([]interface{}, len(tokens))
	for i, t := range tokens {
		out[i] = TokenMap(t)
	}
	return out
}

// DiagnosticsMap converts a diagnostic list
func DiagnosticsMap(diags diag.List) []interface{} {
	out := make([]interface{}, len(diags))
	for i, d := range diags {
		out[i] = DiagnosticMap(d)
	}
	return out
}

// ToMap converts the scan result
func (r ScanResult) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"tokens":      TokensMap(r.Tokens),
		"diagnostics": DiagnosticsMap(r.Diagnostics),
		"ok":          r.OK(),
	}
}

// ToMap converts the parse result. Tokens are left out unless withTokens.
func (r Result) ToMap(withTokens bool) map[string]interface{} {
	exprs := make([]interface{}, len(r.Exprs))
	for i, e := range r.Exprs {
		exprs[i] = mdwast.ToMap(e)
	}

	m := map[string]interface{}{
		"expressions": exprs,
		"diagnostics": DiagnosticsMap(r.Diagnostics),
		"ok":          r.OK(),
	}
	if withTokens {
		m["tokens"] = TokensMap(r.Tokens)
	}
	return m
}
