// Implements a static analysis tool that checks for:
// 1. Usage of the built-in panic() function anywhere in the code
// 2. time.Sleep calls inside for/range loops, which should be a ticker
// so shutdown is observed promptly
package main

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/ast/inspector"
)

func main() {
	singlechecker.Main(Analyzer)
}

// Analyzer detects panic usage and blocking sleep loops.
var Analyzer = &analysis.Analyzer{
	Name: "sleeploop",
	Doc:  "reports usage of panic and time.Sleep inside loops",
	Run:  run,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
	},
}

func run(pass *analysis.Pass) (interface{}, error) {
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	ins.WithStack(nodeFilter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return false
		}
		call := n.(*ast.CallExpr)

		if ident, ok := call.Fun.(*ast.Ident); ok && ident.Name == "panic" {
			pass.Reportf(ident.Pos(), "found usage of panic")
			return true
		}

		if isTimeSleep(call) && insideLoop(stack) {
			pass.Reportf(call.Pos(), "found time.Sleep inside a loop, use a ticker instead")
		}
		return true
	})

	return nil, nil
}

// isTimeSleep reports whether the call is time.Sleep.
func isTimeSleep(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "time" && sel.Sel.Name == "Sleep"
}

// insideLoop reports whether any enclosing node is a for or range loop.
func insideLoop(stack []ast.Node) bool {
	for _, n := range stack {
		switch n.(type) {
		case *ast.ForStmt, *ast.RangeStmt:
			return true
		}
	}
	return false
}
