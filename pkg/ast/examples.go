package ast

// BuildCountingLoop assembles the worked example from the source
// material:
//
//	fn void foo() {
//	  for (int i = 0; i < bound; i++) {
//	  }
//	}
//
// It is the programmatic-construction analog of a parser accepting
// that source text — there is no parser in this system, so every
// example is built this way, directly against the constructor API.
func BuildCountingLoop(bound uint64) *FunctionDeclaration {
	return Func("foo", Void, NewBlock().Append(
		ForLoop(
			Decl("i", Int, Lit(0)),
			Lt(Var("i"), Lit(bound)),
			Inc(Var("i")),
			NewBlock(),
		),
	))
}

// BuildIfElseAssignment assembles S2:
//
//	fn int foo() {
//	  int i = 42;
//	  int j = 0;
//	  if (i < 100) { j = i; }
//	  return j;
//	}
func BuildIfElseAssignment() *FunctionDeclaration {
	return Func("foo", Int, NewBlock().
		Append(Decl("i", Int, Lit(42))).
		Append(Decl("j", Int, Lit(0))).
		Append(If(
			Lt(Var("i"), Lit(100)),
			NewBlock().Append(Assign("j", Var("i"))),
			NewBlock(),
		)).
		Append(Ret(Var("j"))))
}

// BuildWhileAccumulator assembles S3:
//
//	fn int foo() {
//	  int j = 0;
//	  int i = 0;
//	  while (i < bound) { j = i; i++; }
//	  return j;
//	}
func BuildWhileAccumulator(bound uint64) *FunctionDeclaration {
	return Func("foo", Int, NewBlock().
		Append(Decl("j", Int, Lit(0))).
		Append(Decl("i", Int, Lit(0))).
		Append(WhileLoop(
			Lt(Var("i"), Lit(bound)),
			NewBlock().
				Append(Assign("j", Var("i"))).
				Append(Inc(Var("i"))),
		)).
		Append(Ret(Var("j"))))
}

// BuildFibonacci assembles S4:
//
//	fn int foo() {
//	  int t1 = 0;
//	  int t2 = 1;
//	  int t3 = 0;
//	  int i = 0;
//	  while (i < n) {
//	    t3 = t1 + t2;
//	    t1 = t2;
//	    t2 = t3;
//	    i++;
//	  }
//	  return t1;
//	}
//
// t3 is declared once, ahead of the loop, and reassigned on each
// iteration: declaring it inside the loop body would redeclare it on
// the second pass through, which the flat environment treats as a
// precondition failure (see DESIGN.md's Open Question decision).
func BuildFibonacci(n uint64) *FunctionDeclaration {
	return Func("foo", Int, NewBlock().
		Append(Decl("t1", Int, Lit(0))).
		Append(Decl("t2", Int, Lit(1))).
		Append(Decl("t3", Int, Lit(0))).
		Append(Decl("i", Int, Lit(0))).
		Append(WhileLoop(
			Lt(Var("i"), Lit(n)),
			NewBlock().
				Append(Assign("t3", AddExpr(Var("t1"), Var("t2")))).
				Append(Assign("t1", Var("t2"))).
				Append(Assign("t2", Var("t3"))).
				Append(Inc(Var("i"))),
		)).
		Append(Ret(Var("t1"))))
}
