// Package tablegen dumps a built tdfa.TDFA as Go source: a literal
// reconstruction function a consumer can embed so that process start pays
// only for rebuilding the (small) non-ASCII interval trees, never for
// parsing the schema or running subset construction again.
package tablegen

import (
	"fmt"
	"go/format"
	"os"

	"github.com/dave/jennifer/jen"

	"github.com/taglex/taglex/internal/ival"
	"github.com/taglex/taglex/internal/tdfa"
)

// Config controls the generated file's package and entry point name.
type Config struct {
	Package    string
	FuncName   string // defaults to "Load"
	OutputFile string
	SourceDesc string // free-text noted in the header comment, e.g. the schema path
}

// Generate writes a Go source file to cfg.OutputFile defining a niladic
// function, cfg.FuncName, that reconstructs an equivalent *tdfa.TDFA to d.
func Generate(d *tdfa.TDFA, cfg Config) error {
	funcName := cfg.FuncName
	if funcName == "" {
		funcName = "Load"
	}

	f := jen.NewFile(cfg.Package)
	f.Comment(fmt.Sprintf("Code generated by taglex-compile from %s. DO NOT EDIT.", cfg.SourceDesc))
	f.Line()

	f.Func().Id(funcName).Params().Op("*").Qual(tdfaPkg, "TDFA").Block(
		jen.Id("t").Op(":=").Op("&").Qual(tdfaPkg, "TDFA").Values(jen.Dict{
			jen.Id("Start"):        jen.Lit(d.Start),
			jen.Id("NumTag"):       jen.Lit(d.NumTag),
			jen.Id("NumRegisters"): jen.Lit(d.NumRegisters),
			jen.Id("InitialOps"):   opsLiteral(d.InitialOps),
		}),
		jen.Id("t").Dot("States").Op("=").Make(jen.Index().Op("*").Qual(tdfaPkg, "State"), jen.Lit(len(d.States))),
		jen.Line(),
		stateBuilders(d.States),
		jen.Return(jen.Id("t")),
	)

	if err := f.Save(cfg.OutputFile); err != nil {
		return fmt.Errorf("tablegen: saving %s: %w", cfg.OutputFile, err)
	}
	return formatFile(cfg.OutputFile)
}

// formatFile reads a file, formats it with go/format, and writes it back —
// jen.File.Save already renders valid Go, but a second pass keeps the
// output byte-identical to what `gofmt` would produce for a hand-written
// file of the same shape.
func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	formatted, err := format.Source(src)
	if err != nil {
		return err
	}
	return os.WriteFile(path, formatted, 0o644)
}

const (
	tdfaPkg = "github.com/taglex/taglex/internal/tdfa"
	ivalPkg = "github.com/taglex/taglex/internal/ival"
)

// stateBuilders emits one assignment + field-population block per state,
// in index order, so each state can reference the (already-declared)
// t.States slice when building its Trans tree.
func stateBuilders(states []*tdfa.State) jen.Code {
	g := jen.Empty()
	for i, st := range states {
		g.Add(
			jen.Id("t").Dot("States").Index(jen.Lit(i)).Op("=").Op("&").Qual(tdfaPkg, "State").Values(jen.Dict{
				jen.Id("ID"):          jen.Lit(st.ID),
				jen.Id("Trans"):       treeLiteral(st.Trans),
				jen.Id("Transitions"): transitionsLiteral(st.Transitions),
				jen.Id("ASCII"):       asciiLiteral(st.ASCII),
				jen.Id("IsFinal"):     jen.Lit(st.IsFinal),
				jen.Id("FinalRule"):   jen.Lit(st.FinalRule),
				jen.Id("FinalOps"):    opsLiteral(st.FinalOps),
			}),
			jen.Line(),
		)
	}
	return g
}

func treeLiteral(t *ival.Tree[int]) jen.Code {
	entries := t.Entries()
	args := make([]jen.Code, 0, len(entries))
	for _, e := range entries {
		args = append(args, jen.Values(jen.Dict{
			jen.Id("Lo"):    jen.Lit(e.Lo),
			jen.Id("Hi"):    jen.Lit(e.Hi),
			jen.Id("Value"): jen.Lit(e.Value),
		}))
	}
	return jen.Qual(ivalPkg, "NewIntTree").Call(
		jen.Index().Qual(ivalPkg, "IntEntry").Values(args...),
	)
}

func asciiLiteral(ascii [128]int) jen.Code {
	vals := make([]jen.Code, len(ascii))
	for i, v := range ascii {
		vals[i] = jen.Lit(v)
	}
	return jen.Index(jen.Lit(128)).Int().Values(vals...)
}

func transitionsLiteral(trans []tdfa.Transition) jen.Code {
	if len(trans) == 0 {
		return jen.Nil()
	}
	items := make([]jen.Code, 0, len(trans))
	for _, tr := range trans {
		items = append(items, jen.Values(jen.Dict{
			jen.Id("Target"): jen.Lit(tr.Target),
			jen.Id("Ops"):    opsLiteral(tr.Ops),
		}))
	}
	return jen.Index().Qual(tdfaPkg, "Transition").Values(items...)
}

func opsLiteral(ops []tdfa.RegisterOp) jen.Code {
	if len(ops) == 0 {
		return jen.Nil()
	}
	items := make([]jen.Code, 0, len(ops))
	for _, op := range ops {
		items = append(items, jen.Values(jen.Dict{
			jen.Id("Dest"): jen.Qual(tdfaPkg, "RegisterID").Call(jen.Lit(int(op.Dest))),
			jen.Id("Action"): jen.Qual(tdfaPkg, "Action").Values(jen.Dict{
				jen.Id("Kind"):    actionKindLiteral(op.Action.Kind),
				jen.Id("Source"):  jen.Qual(tdfaPkg, "RegisterID").Call(jen.Lit(int(op.Action.Source))),
				jen.Id("History"): historyLiteral(op.Action.History),
			}),
		}))
	}
	return jen.Index().Qual(tdfaPkg, "RegisterOp").Values(items...)
}

func actionKindLiteral(k tdfa.ActionKind) jen.Code {
	if k == tdfa.CopyFrom {
		return jen.Qual(tdfaPkg, "CopyFrom")
	}
	return jen.Qual(tdfaPkg, "Append")
}

func historyLiteral(history []tdfa.Mark) jen.Code {
	if len(history) == 0 {
		return jen.Nil()
	}
	items := make([]jen.Code, 0, len(history))
	for _, m := range history {
		if m == tdfa.Current {
			items = append(items, jen.Qual(tdfaPkg, "Current"))
		} else {
			items = append(items, jen.Qual(tdfaPkg, "NilMark"))
		}
	}
	return jen.Index().Qual(tdfaPkg, "Mark").Values(items...)
}
