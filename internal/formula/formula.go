// Package formula evaluates the restricted arithmetic expression language
// used by calculator outputs. Expressions are tokenized, converted to postfix
// via shunting-yard, and reduced on a numeric stack. The reachable operation
// set is bounded to the caller's variable environment plus a fixed builtin
// table; there is no dynamic code path.
package formula

import (
	"math"
	"strconv"
	"strings"

	"github.com/rendis/interact/pkg/schema"
)

// builtins is the fixed single-argument function table. min and max are
// identity passthroughs: the authoring format declares them with one
// argument, so there is nothing to compare against.
var builtins = map[string]func(float64) float64{
	"abs":   math.Abs,
	"round": math.Round,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"sqrt":  math.Sqrt,
	"log":   math.Log10,
	"ln":    math.Log,
	"exp":   math.Exp,
	"min":   func(x float64) float64 { return x },
	"max":   func(x float64) float64 { return x },
}

// precedence table for binary operators. '^' binds tightest and is the only
// right-associative operator.
var precedence = map[byte]int{
	'^': 3,
	'*': 2, '/': 2, '%': 2,
	'+': 1, '-': 1,
}

// token is either a resolved operand value or a single-character operator.
type token struct {
	op    byte // one of + - * / ^ % ( ); 0 for operands
	value float64
}

func (t token) isOperand() bool { return t.op == 0 }

// Evaluate computes the numeric value of expression against the given
// variable environment. It never mutates vars and has no side effects.
// All failures are *schema.ElementError with code EVALUATION_ERROR.
func Evaluate(expression string, vars map[string]float64) (float64, error) {
	tokens, err := tokenize(expression, vars)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, schema.NewError(schema.ErrCodeEvaluation, "empty expression")
	}

	postfix, err := toPostfix(tokens)
	if err != nil {
		return 0, err
	}

	return evalPostfix(postfix)
}

// Validate dry-runs expression with every declared variable bound to a dummy
// value, catching unknown identifiers and malformed syntax at authoring time.
// Division-by-zero against the dummy environment is not reported: it depends
// on runtime values, not on the expression's shape.
func Validate(expression string, varNames []string) error {
	dummy := make(map[string]float64, len(varNames))
	for _, name := range varNames {
		dummy[name] = 1
	}

	_, err := Evaluate(expression, dummy)
	if err != nil {
		var elem *schema.ElementError
		if e, ok := err.(*schema.ElementError); ok {
			elem = e
		}
		if elem != nil && strings.Contains(elem.Message, "division by zero") {
			return nil
		}
		return err
	}
	return nil
}

// tokenize scans the expression left to right. Non-operator runs resolve as
// numeric literals, builtin calls name(arg), or variable lookups, in that
// order. The argument of a builtin call is evaluated recursively.
func tokenize(expression string, vars map[string]float64) ([]token, error) {
	var tokens []token
	var run strings.Builder

	flush := func() error {
		if run.Len() == 0 {
			return nil
		}
		val, err := resolveRun(run.String(), vars)
		if err != nil {
			return err
		}
		tokens = append(tokens, token{value: val})
		run.Reset()
		return nil
	}

	i := 0
	for i < len(expression) {
		c := expression[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n':
			if err := flush(); err != nil {
				return nil, err
			}
			i++

		case c == '(' && run.Len() > 0:
			// A run followed directly by '(' is a function call when the
			// run names a builtin. The argument substring is evaluated
			// recursively against the same environment.
			name := run.String()
			fn, ok := builtins[name]
			if !ok {
				return nil, schema.NewErrorf(schema.ErrCodeEvaluation,
					"unknown variable or function %q", name).
					WithDetails(map[string]any{"expression": expression})
			}
			run.Reset()

			end, err := matchParen(expression, i)
			if err != nil {
				return nil, err
			}
			arg, err := Evaluate(expression[i+1:end], vars)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{value: fn(arg)})
			i = end + 1

		case isOperator(c):
			if err := flush(); err != nil {
				return nil, err
			}
			tokens = append(tokens, token{op: c})
			i++

		default:
			run.WriteByte(c)
			i++
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return tokens, nil
}

// resolveRun turns an identifier/number run into a value: numeric literal
// first, then variable lookup.
func resolveRun(run string, vars map[string]float64) (float64, error) {
	if v, err := strconv.ParseFloat(run, 64); err == nil {
		return v, nil
	}
	if v, ok := vars[run]; ok {
		return v, nil
	}
	return 0, schema.NewErrorf(schema.ErrCodeEvaluation,
		"unknown variable or function %q", run).
		WithDetails(map[string]any{"identifier": run})
}

// matchParen returns the index of the ')' balancing the '(' at open.
func matchParen(expression string, open int) (int, error) {
	depth := 0
	for i := open; i < len(expression); i++ {
		switch expression[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, schema.NewError(schema.ErrCodeEvaluation, "mismatched parentheses")
}

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '^', '%', '(', ')':
		return true
	}
	return false
}

// toPostfix converts infix tokens to postfix order with shunting-yard.
// '^' is right-associative; all other operators are left-associative.
func toPostfix(tokens []token) ([]token, error) {
	output := make([]token, 0, len(tokens))
	var stack []byte

	for _, t := range tokens {
		switch {
		case t.isOperand():
			output = append(output, t)

		case t.op == '(':
			stack = append(stack, '(')

		case t.op == ')':
			for len(stack) > 0 && stack[len(stack)-1] != '(' {
				output = append(output, token{op: stack[len(stack)-1]})
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, schema.NewError(schema.ErrCodeEvaluation, "mismatched parentheses")
			}
			stack = stack[:len(stack)-1] // discard '('

		default:
			prec := precedence[t.op]
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top == '(' {
					break
				}
				topPrec := precedence[top]
				// Pop strictly-higher precedence, or equal precedence for
				// left-associative operators. '^' stacks on itself.
				if topPrec > prec || (topPrec == prec && t.op != '^') {
					output = append(output, token{op: top})
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, t.op)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top == '(' {
			return nil, schema.NewError(schema.ErrCodeEvaluation, "mismatched parentheses")
		}
		output = append(output, token{op: top})
		stack = stack[:len(stack)-1]
	}

	return output, nil
}

// evalPostfix reduces a postfix token stream on a numeric stack.
func evalPostfix(tokens []token) (float64, error) {
	stack := make([]float64, 0, len(tokens))

	for _, t := range tokens {
		if t.isOperand() {
			stack = append(stack, t.value)
			continue
		}

		if len(stack) < 2 {
			return 0, schema.NewErrorf(schema.ErrCodeEvaluation,
				"malformed expression: operator %q is missing operands", string(t.op))
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		var v float64
		switch t.op {
		case '+':
			v = a + b
		case '-':
			v = a - b
		case '*':
			v = a * b
		case '/':
			if b == 0 {
				return 0, schema.NewError(schema.ErrCodeEvaluation, "division by zero")
			}
			v = a / b
		case '%':
			if b == 0 {
				return 0, schema.NewError(schema.ErrCodeEvaluation, "division by zero")
			}
			v = math.Mod(a, b)
		case '^':
			v = math.Pow(a, b)
		}
		stack = append(stack, v)
	}

	if len(stack) != 1 {
		return 0, schema.NewError(schema.ErrCodeEvaluation, "malformed expression")
	}
	return stack[0], nil
}
