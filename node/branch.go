package node

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// NewExprPredicate compiles expression once with expr-lang and returns a
// Predicate that evaluates it against {"input": input} on every call, so
// a Branch configured from a YAML graph description (see package config)
// can carry `input.score > 50 ? "high" : "low"` instead of a wired Go
// closure. The
// compiled expression's result must be a string action label; anything
// else is a configuration error surfaced the first time the predicate
// runs.
func NewExprPredicate(expression string) (Predicate, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("node: compiling branch predicate %q: %w", expression, err)
	}
	return exprPredicate(expression, program), nil
}

func exprPredicate(expression string, program *vm.Program) Predicate {
	return func(ctx context.Context, input any) (string, error) {
		out, err := expr.Run(program, map[string]any{"input": input})
		if err != nil {
			return "", fmt.Errorf("node: evaluating branch predicate %q: %w", expression, err)
		}
		label, ok := out.(string)
		if !ok {
			return "", fmt.Errorf("node: branch predicate %q produced %T, want string", expression, out)
		}
		return label, nil
	}
}
