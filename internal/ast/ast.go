// Package ast defines the AST this compiler walks. The scanner and
// parser that build it are external collaborators per spec §1 (only
// their interface is specified); this package is the shared vocabulary
// between them and internal/constraints.
package ast

// Pos is a source position, row/column as the scanner's
// row_column_index would report it.
type Pos struct {
	Line, Col int
}

// Node is any AST node.
type Node interface {
	Position() Pos
}

type base struct{ P Pos }

func (b base) Position() Pos { return b.P }

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

type exprBase struct{ base }

func (exprBase) exprNode() {}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

type stmtBase struct{ base }

func (stmtBase) stmtNode() {}

// NumberLiteral is a numeric literal (spec §4.E: ConstantValue/Scalar).
type NumberLiteral struct {
	exprBase
	Text string
}

// CharLiteral is a single-quoted char-array literal.
type CharLiteral struct {
	exprBase
	Text string
}

// StringLiteral is a double-quoted string literal.
type StringLiteral struct {
	exprBase
	Text string
}

// Identifier is a bare name reference. The constraint generator resolves
// it against the enclosing function's locals, the same-file functions,
// and (at a call site) the builtin library.
type Identifier struct {
	exprBase
	Name string
}

// FieldAccess is `a.b`.
type FieldAccess struct {
	exprBase
	Target Expr
	Field  string
}

// BinaryExpr is a binary-operator application.
type BinaryExpr struct {
	exprBase
	Op          string
	Left, Right Expr
}

// UnaryExpr is a unary-operator application.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
}

// FunctionCallExpr is `f(args...)`.
type FunctionCallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

// AnonymousFunction is `@(params...) body`.
type AnonymousFunction struct {
	exprBase
	Params []string
	Body   Expr
}

// Assignment is `lhs... = rhs`; LHS has more than one entry for
// destructured assignment (`[a,b] = f()`).
type Assignment struct {
	stmtBase
	LHS []Expr
	RHS Expr
}

// ExprStmt is an expression evaluated for its side effect (a bare call).
type ExprStmt struct {
	stmtBase
	X Expr
}

// Block is an ordered sequence of statements.
type Block struct {
	base
	Stmts []Stmt
}

// FunctionDef is `function [outs] = name(ins) ... end`.
type FunctionDef struct {
	stmtBase
	Name    string
	Inputs  []string
	Outputs []string
	Body    *Block
}

// ClassDef is `classdef Name ... properties ... end ... methods ... end
// ... end`: a set of property names and methods, each either an
// instance method (its first input is the receiving object) or a
// static one declared under `methods (Static)` (spec §4.E: "public/
// static/instance dispatch is encoded by the method's Abstraction.kind").
type ClassDef struct {
	stmtBase
	Name       string
	Properties []string
	Methods    []*MethodDef
}

// MethodDef is one method inside a ClassDef. A method whose Name
// matches its ClassDef's Name is the constructor (spec §4.E: "the
// constructor's output is the class type").
type MethodDef struct {
	Fn     *FunctionDef
	Static bool
}

// ImportStmt is `import a.b.c` (Wildcard=false) or `import a.b.*`
// (Wildcard=true).
type ImportStmt struct {
	stmtBase
	Path     []string
	Wildcard bool
}

// TypeExpr is a type expression inside a `%<...>` @T macro block (spec
// §6.3): either a bare name reference or an arrow type.
type TypeExpr interface {
	typeExprNode()
}

// TypeRef is a bare name inside a type expression, resolved against
// the file's type scope and then the builtin library (spec §6.3).
type TypeRef struct {
	Name string
}

func (*TypeRef) typeExprNode() {}

// TypeArrow is `A -> B` inside a type expression.
type TypeArrow struct {
	In, Out TypeExpr
}

func (*TypeArrow) typeExprNode() {}

// TypeAliasDecl is `let Name = TypeExpr` inside a macro block.
type TypeAliasDecl struct {
	Name string
	Expr TypeExpr
}

// FunTypeDecl is `fun Name :: TypeExpr` inside a macro block: an
// explicit declared type for function Name, checked against (not
// substituted for) its inferred type (spec §8's round-trip law).
type FunTypeDecl struct {
	Name string
	Expr TypeExpr
}

// TypeAnnotation is one parsed `%<...>` @T macro block (spec §6.3):
// `given` introduces fresh type variables, `let` binds a name to a
// type expression in the file's type scope, `fun` declares a checked
// type for a same-file function. The block's other macro keywords
// (`namespace`, `struct`, `declare`, `constructor`, `export`) are
// recognized by the scanner but have no further semantics yet — a
// block using only them parses to an empty TypeAnnotation.
type TypeAnnotation struct {
	stmtBase
	Givens []string
	Lets   []TypeAliasDecl
	Funs   []FunTypeDecl
}

// File is the parsed root of one source file: its top-level block, any
// pending type imports the parser recognized from `import`
// statements, the file-entry function/class if this file defines one
// (spec §3.6), and any `%<...>` @T macro blocks (spec §6.3).
type File struct {
	Root               *Block
	PendingTypeImports []string
	EntryFunction      *FunctionDef
	EntryClass         *ClassDef
	Imports            []*ImportStmt
	TypeAnnotations    []*TypeAnnotation
}
