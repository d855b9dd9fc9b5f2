package ast

// Visitor dispatches over every concrete node variant, generalizing the
// teacher's AstNodeVisitor (grammar_ast_visitor.go) from grammar
// productions to the DSL's expression/statement/declaration/type
// algebra (spec §3.2).
type Visitor interface {
	VisitProgram(*Program) error

	VisitIdentifier(*Identifier) error
	VisitIntegerLiteral(*IntegerLiteral) error
	VisitStringLiteral(*StringLiteral) error
	VisitOffsetLiteral(*OffsetLiteral) error
	VisitNullLiteral(*NullLiteral) error

	VisitBinary(*Binary) error
	VisitUnary(*Unary) error
	VisitCast(*Cast) error
	VisitConditional(*Conditional) error
	VisitIndexer(*Indexer) error
	VisitTrimmer(*Trimmer) error
	VisitStructCons(*StructCons) error
	VisitFuncCall(*FuncCall) error
	VisitMapExpr(*MapExpr) error
	VisitVarRef(*VarRef) error

	VisitAssignment(*Assignment) error
	VisitExprStmt(*ExprStmt) error
	VisitCompound(*Compound) error
	VisitIf(*If) error
	VisitLoopWhile(*LoopWhile) error
	VisitLoopForN(*LoopForN) error
	VisitLoopForIn(*LoopForIn) error
	VisitReturn(*Return) error
	VisitBreak(*Break) error
	VisitPrint(*Print) error

	VisitVarDecl(*VarDecl) error
	VisitFuncDecl(*FuncDecl) error
	VisitTypeDecl(*TypeDecl) error
	VisitUnitDecl(*UnitDecl) error

	VisitTypeIntegral(*TypeIntegral) error
	VisitTypeString(*TypeString) error
	VisitTypeAny(*TypeAny) error
	VisitTypeArray(*TypeArray) error
	VisitTypeStruct(*TypeStruct) error
	VisitTypeFunction(*TypeFunction) error
	VisitTypeOffset(*TypeOffset) error
}

// Inspect walks the tree in depth-first order calling f for each node.
// Returning false from f skips that node's children (spec §4.1's "mode
// flag for type-subtree traversal" is layered on top by pass.Walker;
// Inspect itself is the untyped structural traversal, grounded on the
// teacher's Inspect in grammar_ast_visitor.go).
func Inspect(n Node, f func(Node) bool) {
	visited := make(map[Node]bool)
	inspect(n, f, visited)
}

func inspect(n Node, f func(Node) bool, visited map[Node]bool) {
	if n == nil {
		return
	}
	if visited[n] {
		return
	}
	visited[n] = true
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		inspect(c, f, visited)
	}
}

// Children returns the immediate child nodes of n, used by Inspect and
// by pass.Walker's generic recursion so individual phases never need to
// hand-write traversal code (spec §4.1).
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Program:
		return v.Decls
	case *Binary:
		return []Node{v.Left, v.Right}
	case *Unary:
		return []Node{v.Operand}
	case *Cast:
		return []Node{v.Target, v.Operand}
	case *Conditional:
		return []Node{v.Cond, v.Then, v.Else}
	case *Indexer:
		return []Node{v.Base, v.Index}
	case *Trimmer:
		return []Node{v.Base, v.From, v.To}
	case *StructCons:
		return append([]Node{v.Target}, v.Fields...)
	case *FuncCall:
		return append([]Node{v.Callee}, v.Args...)
	case *MapExpr:
		return []Node{v.Target, v.IOS, v.Offset}
	case *Assignment:
		return []Node{v.LHS, v.RHS}
	case *ExprStmt:
		return []Node{v.Expr}
	case *Compound:
		return v.Stmts
	case *If:
		return []Node{v.Cond, v.Then, v.Else}
	case *LoopWhile:
		return []Node{v.Cond, v.Body}
	case *LoopForN:
		return []Node{v.Init, v.Cond, v.Step, v.Body}
	case *LoopForIn:
		return []Node{v.Iterable, v.Body}
	case *Return:
		return []Node{v.Value}
	case *Print:
		return v.Args
	case *VarDecl:
		return []Node{v.TypeSpec, v.Init}
	case *FuncDecl:
		return append(append([]Node{v.RetType}, v.ParamTypes...), v.Body)
	case *TypeDecl:
		return []Node{v.TypeSpec}
	case *TypeArray:
		return []Node{v.ElemType}
	case *TypeStruct:
		return v.FieldTypes
	case *TypeFunction:
		return append([]Node{v.RetType}, v.ParamTypes...)
	case *TypeOffset:
		return []Node{v.BaseType}
	default:
		return nil
	}
}
