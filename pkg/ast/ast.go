// Package ast defines the tree representation for the tiny imperative
// language this runtime executes, and the recursive evaluator over it.
//
// There is no lexer or parser here: clients build trees directly
// through the constructor/append functions in this file, the way the
// original C++ source builds an Ast by hand in main().
package ast

// NodeType tags every concrete node so the interpreter and the dumper
// can dispatch without reflection.
type NodeType string

const (
	NodeLiteral             NodeType = "Literal"
	NodeVariable            NodeType = "Variable"
	NodeAdd                 NodeType = "Add"
	NodeLessThan            NodeType = "LessThan"
	NodeIncrement           NodeType = "Increment"
	NodeAssignment          NodeType = "Assignment"
	NodeVariableDeclaration NodeType = "VariableDeclaration"
	NodeReturn              NodeType = "Return"
	NodeBlock               NodeType = "Block"
	NodeIfElse              NodeType = "IfElse"
	NodeWhile               NodeType = "While"
	NodeFor                 NodeType = "For"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
)

// Node is the interface every AST variant implements. isNode is
// unexported so no type outside this package can satisfy it by
// accident.
type Node interface {
	NodeType() NodeType
	isNode()
}

// Expression is any node that yields a value when interpreted.
type Expression interface {
	Node
	isExpression()
}

type nodeImpl struct {
	kind NodeType
}

func newNodeImpl(kind NodeType) nodeImpl { return nodeImpl{kind: kind} }

func (n nodeImpl) NodeType() NodeType { return n.kind }
func (nodeImpl) isNode()              {}

type expressionMarker struct{}

func (expressionMarker) isExpression() {}

// ValueType is the declared type carried on VariableDeclaration and
// FunctionDeclaration nodes. It is never enforced: the evaluator
// treats every value as a 64-bit integer (spec §3).
type ValueType string

const (
	Void  ValueType = "void"
	Int   ValueType = "int"
	Float ValueType = "float"
	Bool  ValueType = "bool"
)

func (t ValueType) String() string {
	switch t {
	case Void, Int, Float, Bool:
		return string(t)
	default:
		return "unknown"
	}
}

// Literal is a leaf holding an immediate integer value.
type Literal struct {
	nodeImpl
	expressionMarker

	Value uint64
}

func Lit(value uint64) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

// Variable is a leaf holding a name, resolved by lookup at evaluation
// time — there is no separate name-resolution pass.
type Variable struct {
	nodeImpl
	expressionMarker

	Name string
}

func Var(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

// Add is the integer sum of two expressions.
type Add struct {
	nodeImpl
	expressionMarker

	Left, Right Expression
}

func AddExpr(left, right Expression) *Add {
	return &Add{nodeImpl: newNodeImpl(NodeAdd), Left: left, Right: right}
}

// LessThan yields 1 if Left < Right, else 0.
type LessThan struct {
	nodeImpl
	expressionMarker

	Left, Right Expression
}

func Lt(left, right Expression) *LessThan {
	return &LessThan{nodeImpl: newNodeImpl(NodeLessThan), Left: left, Right: right}
}

// Increment is a post-increment of a variable: it yields the
// pre-increment value and advances the binding in place.
type Increment struct {
	nodeImpl
	expressionMarker

	Variable *Variable
}

func Inc(variable *Variable) *Increment {
	return &Increment{nodeImpl: newNodeImpl(NodeIncrement), Variable: variable}
}

// Assignment requires Name to already be declared; it stores Value's
// result under Name and yields that value.
type Assignment struct {
	nodeImpl
	expressionMarker

	Name  string
	Value Expression
}

func Assign(name string, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Name: name, Value: value}
}

// VariableDeclaration requires Name to not yet be declared; it binds
// Initializer's result under Name and yields that value.
type VariableDeclaration struct {
	nodeImpl
	expressionMarker

	Name        string
	Type        ValueType
	Initializer Expression
}

func Decl(name string, typ ValueType, initializer Expression) *VariableDeclaration {
	return &VariableDeclaration{
		nodeImpl:    newNodeImpl(NodeVariableDeclaration),
		Name:        name,
		Type:        typ,
		Initializer: initializer,
	}
}

// Return yields Value's result. It does not unwind its enclosing
// block or function in this core (spec §9 Open Question, decided in
// DESIGN.md): a Return in the middle of a block behaves exactly like
// an expression statement.
type Return struct {
	nodeImpl
	expressionMarker

	Value Expression
}

func Ret(value Expression) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Value: value}
}

// Block is an ordered sequence of children. Its result is its last
// child's result, or 0 for an empty block.
type Block struct {
	nodeImpl
	expressionMarker

	Children []Node
}

func NewBlock() *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock)}
}

// Append links n as the last child of b and returns b so callers can
// chain appends the way the C++ source chains append<T>(...) calls.
func (b *Block) Append(n Node) *Block {
	b.Children = append(b.Children, n)
	return b
}

// IfElse always carries both arms; ElseBody may be an empty Block.
type IfElse struct {
	nodeImpl
	expressionMarker

	Condition *LessThan
	Body      *Block
	ElseBody  *Block
}

func If(condition *LessThan, body, elseBody *Block) *IfElse {
	return &IfElse{nodeImpl: newNodeImpl(NodeIfElse), Condition: condition, Body: body, ElseBody: elseBody}
}

// While repeatedly evaluates Condition; while it is non-zero, it
// evaluates Body.
type While struct {
	nodeImpl
	expressionMarker

	Condition *LessThan
	Body      *Block
}

func WhileLoop(condition *LessThan, body *Block) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Condition: condition, Body: body}
}

// For is sugar for Initializer; while Condition { Body; Step }.
type For struct {
	nodeImpl
	expressionMarker

	Initializer *VariableDeclaration
	Condition   *LessThan
	Step        *Increment
	Body        *Block
}

func ForLoop(initializer *VariableDeclaration, condition *LessThan, step *Increment, body *Block) *For {
	return &For{
		nodeImpl:    newNodeImpl(NodeFor),
		Initializer: initializer,
		Condition:   condition,
		Step:        step,
		Body:        body,
	}
}

// FunctionDeclaration is the top-level entry point: a zero-parameter
// named function with a declared return type and a body.
type FunctionDeclaration struct {
	nodeImpl
	expressionMarker

	Name       string
	ReturnType ValueType
	Body       *Block
}

func Func(name string, returnType ValueType, body *Block) *FunctionDeclaration {
	return &FunctionDeclaration{
		nodeImpl:   newNodeImpl(NodeFunctionDeclaration),
		Name:       name,
		ReturnType: returnType,
		Body:       body,
	}
}
