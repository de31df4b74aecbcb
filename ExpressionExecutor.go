package main

import (
	"errors"
	"fmt"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
	"github.com/golang/groupcache/lru"
	"gridSheet/contracts"
	"math"
	"strings"
	"sync"
)

// MaxCachedPrograms bounds the compiled formulas kept between evaluations
const MaxCachedPrograms = 1024

type compiledFormula struct {
	program    *vm.Program
	references []string
}

type ExpressionExecutor struct {
	compilerOptions []expr.Option
	vmPool          sync.Pool

	programsMutex sync.Mutex
	programs      *lru.Cache
}

func NewExpressionExecutor() *ExpressionExecutor {
	return &ExpressionExecutor{
		compilerOptions: []expr.Option{
			expr.Env(map[string]any{}),
			expr.AllowUndefinedVariables(),
			expr.Optimize(false),
			expr.DisableAllBuiltins(),
			divideFunction,
		},

		vmPool: sync.Pool{
			New: func() any {
				return new(vm.VM)
			},
		},

		programs: lru.New(MaxCachedPrograms),
	}
}

func (e *ExpressionExecutor) IsFormula(text string) bool {
	return IsFormula(text)
}

// Evaluate computes a formula. Every reference is resolved once into the vm
// env. Resolver errors are returned wrapped, so a CircularReferenceError from
// a referenced cell stays detectable.
func (e *ExpressionExecutor) Evaluate(formula string, resolver contracts.CellValueResolver) (float64, error) {
	compiled, err := e.compile(formula)
	if err != nil {
		return 0, err
	}

	vars, err := e.lookupVars(compiled.references, resolver)
	if err != nil {
		return 0, err
	}

	v := e.vmPool.Get().(*vm.VM)
	output, err := v.Run(compiled.program, vars)
	e.vmPool.Put(v)

	if err != nil {
		if errors.Is(err, contracts.FormulaError) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", contracts.FormulaError, err)
	}

	value, ok := output.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: result %T is not a number", contracts.FormulaError, output)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: result is out of range", contracts.FormulaError)
	}

	return value, nil
}

func (e *ExpressionExecutor) ExtractReferences(formula string) []string {
	references := make([]string, 0)

	compiled, err := e.compile(formula)
	if err == nil {
		references = append(references, compiled.references...)
	}

	return references
}

func (e *ExpressionExecutor) compile(formula string) (*compiledFormula, error) {
	formula = strings.ToUpper(formula)

	e.programsMutex.Lock()
	cached, ok := e.programs.Get(formula)
	e.programsMutex.Unlock()
	if ok {
		return cached.(*compiledFormula), nil
	}

	if !IsFormula(formula) {
		return nil, fmt.Errorf("`%s`: %w: not a formula", formula, contracts.FormulaError)
	}

	body := strings.TrimPrefix(formula, FormulaPrefix)
	if position := literalFollowedByLetter(body); position >= 0 {
		return nil, fmt.Errorf("`%s`: %w: missing operator at %d", formula, contracts.FormulaError, position)
	}

	references := &FindReferencesVisitor{}
	options := make([]expr.Option, 0, len(e.compilerOptions)+2)
	options = append(options, e.compilerOptions...)
	options = append(options, expr.Patch(references), expr.Patch(&arithmeticPatcher{}))

	program, err := expr.Compile(body, options...)
	if references.err != nil {
		return nil, fmt.Errorf("`%s`: %w", formula, references.err)
	}
	if err != nil {
		return nil, fmt.Errorf("`%s`: %w: %w", formula, contracts.FormulaError, err)
	}

	compiled := &compiledFormula{program: program, references: references.references}

	e.programsMutex.Lock()
	e.programs.Add(formula, compiled)
	e.programsMutex.Unlock()

	return compiled, nil
}

func (e *ExpressionExecutor) cachedPrograms() int {
	e.programsMutex.Lock()
	defer e.programsMutex.Unlock()
	return e.programs.Len()
}

// lookupVars resolves every reference once
func (e *ExpressionExecutor) lookupVars(references []string, resolver contracts.CellValueResolver) (map[string]any, error) {
	vars := make(map[string]any, len(references))

	for _, reference := range references {
		if resolver == nil {
			return nil, fmt.Errorf("%s: %w", reference, contracts.CellNotFoundError)
		}

		value, err := resolver(reference)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", reference, err)
		}
		vars[reference] = value
	}

	return vars, nil
}

// literalFollowedByLetter finds a number running into letters ("3A1", "1E5")
func literalFollowedByLetter(body string) int {
	for i := 0; i+1 < len(body); i++ {
		if (isDigit(body[i]) || body[i] == '.') && isLetter(body[i+1]) {
			return i + 1
		}
	}
	return -1
}

// arithmeticPatcher turns integer literals into floats and "/" into a divide
// call that rejects a zero divisor
type arithmeticPatcher struct{}

func (p *arithmeticPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "/" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: divideFunctionName},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}
