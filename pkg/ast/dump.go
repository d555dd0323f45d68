package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders n in the stable textual form described in spec §4.1/§8,
// e.g. "Literal(42)", "Block(Literal(1)Literal(2))". Dump never fails:
// an unrecognized node type is itself a programmer error and panics,
// the same posture the interpreter takes toward unknown tags (§9).
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Literal:
		b.WriteString("Literal(")
		b.WriteString(strconv.FormatUint(v.Value, 10))
		b.WriteString(")")
	case *Variable:
		b.WriteString("Variable(")
		b.WriteString(v.Name)
		b.WriteString(")")
	case *Add:
		b.WriteString("Add(")
		dump(b, v.Left)
		b.WriteString(", ")
		dump(b, v.Right)
		b.WriteString(")")
	case *LessThan:
		b.WriteString("LessThan(")
		dump(b, v.Left)
		b.WriteString(", ")
		dump(b, v.Right)
		b.WriteString(")")
	case *Increment:
		b.WriteString("Increment(")
		b.WriteString(v.Variable.Name)
		b.WriteString(")")
	case *Assignment:
		b.WriteString("Assignment(")
		b.WriteString(v.Name)
		b.WriteString(", ")
		dump(b, v.Value)
		b.WriteString(")")
	case *VariableDeclaration:
		b.WriteString("VariableDeclaration(")
		b.WriteString(v.Name)
		b.WriteString(", ")
		b.WriteString(v.Type.String())
		b.WriteString(", ")
		dump(b, v.Initializer)
		b.WriteString(")")
	case *Return:
		b.WriteString("Return(")
		dump(b, v.Value)
		b.WriteString(")")
	case *Block:
		b.WriteString("Block(")
		for _, child := range v.Children {
			dump(b, child)
		}
		b.WriteString(")")
	case *IfElse:
		b.WriteString("IfElse(")
		dump(b, v.Condition)
		b.WriteString(", ")
		dump(b, v.Body)
		b.WriteString(", ")
		dump(b, v.ElseBody)
		b.WriteString(")")
	case *While:
		b.WriteString("While(")
		dump(b, v.Condition)
		b.WriteString(", ")
		dump(b, v.Body)
		b.WriteString(")")
	case *For:
		b.WriteString("For(")
		dump(b, v.Initializer)
		b.WriteString(", ")
		dump(b, v.Condition)
		b.WriteString(", ")
		dump(b, v.Step)
		b.WriteString(", ")
		dump(b, v.Body)
		b.WriteString(")")
	case *FunctionDeclaration:
		b.WriteString("FunctionDeclaration(")
		b.WriteString(v.Name)
		b.WriteString(", ")
		b.WriteString(v.ReturnType.String())
		b.WriteString(", ")
		dump(b, v.Body)
		b.WriteString(")")
	default:
		panic(fmt.Sprintf("ast: Dump: unhandled node type %T", n))
	}
}
