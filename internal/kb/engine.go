package kb

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	mengine "github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
)

//go:embed rules/safety.mg
var ruleFiles embed.FS

// safetyProgram is the compiled inference program shared by all knowledge
// bases. The embedded rules MUST compile, otherwise the binary is corrupt.
var (
	programOnce    sync.Once
	safetyProgram  *analysis.ProgramInfo
	safetyPredSyms map[string]ast.PredicateSym
)

func compiledProgram() (*analysis.ProgramInfo, map[string]ast.PredicateSym) {
	programOnce.Do(func() {
		data, err := ruleFiles.ReadFile("rules/safety.mg")
		if err != nil {
			panic(fmt.Sprintf("kb: embedded rules missing: %v", err))
		}
		unit, err := parse.Unit(strings.NewReader(string(data)))
		if err != nil {
			panic(fmt.Sprintf("kb: embedded rules failed to parse: %v", err))
		}
		program, err := analysis.AnalyzeOneUnit(unit, nil)
		if err != nil {
			panic(fmt.Sprintf("kb: embedded rules failed analysis: %v", err))
		}
		syms := make(map[string]ast.PredicateSym, len(program.Decls))
		for sym := range program.Decls {
			syms[sym.Symbol] = sym
		}
		safetyProgram = program
		safetyPredSyms = syms
	})
	return safetyProgram, safetyPredSyms
}

// sweep runs one evaluation of the safety program over the knowledge base's
// current facts and returns the derived no_pit, no_wumpus and safe cells.
// Evaluation happens against a throwaway store: the knowledge base itself
// stays the single source of truth and only grows by the merged results.
func (k *KnowledgeBase) sweep() (noPit, noWumpus, safe []Cell) {
	program, syms := compiledProgram()
	store := factstore.NewSimpleInMemoryStore()

	for _, atom := range k.adjacency {
		store.Add(atom)
	}
	base := map[Fact]string{
		Visited:  "visited",
		NoBreeze: "no_breeze",
		NoStench: "no_stench",
		NoPit:    "no_pit",
		NoWumpus: "no_wumpus",
	}
	for fact, pred := range base {
		sym := syms[pred]
		for cell := range k.facts[fact] {
			store.Add(cellAtom(sym, cell))
		}
	}

	if _, err := mengine.EvalProgramWithStats(program, store); err != nil {
		// Non-recursive rules over a bounded grid cannot fail; an error
		// here means the engine and the embedded rules disagree.
		panic(fmt.Sprintf("kb: inference sweep failed: %v", err))
	}

	noPit = collectCells(store, syms["no_pit"])
	noWumpus = collectCells(store, syms["no_wumpus"])
	safe = collectCells(store, syms["safe"])
	return noPit, noWumpus, safe
}

// buildAdjacency precomputes the adjacent/4 relation for the grid. The
// neighbor order here is irrelevant to inference; ordered neighbor scans
// live in Neighbors.
func buildAdjacency(size int) []ast.Atom {
	_, syms := compiledProgram()
	sym := syms["adjacent"]
	atoms := make([]ast.Atom, 0, size*size*4)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			for _, n := range neighborCells(Cell{Row: r, Col: c}, size) {
				atoms = append(atoms, ast.Atom{
					Predicate: sym,
					Args: []ast.BaseTerm{
						ast.Number(int64(r)), ast.Number(int64(c)),
						ast.Number(int64(n.Row)), ast.Number(int64(n.Col)),
					},
				})
			}
		}
	}
	return atoms
}

func cellAtom(sym ast.PredicateSym, c Cell) ast.Atom {
	return ast.Atom{
		Predicate: sym,
		Args:      []ast.BaseTerm{ast.Number(int64(c.Row)), ast.Number(int64(c.Col))},
	}
}

func collectCells(store factstore.FactStore, sym ast.PredicateSym) []Cell {
	var cells []Cell
	err := store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		cell, ok := cellFromAtom(atom)
		if !ok {
			return fmt.Errorf("non-numeric arguments in %v", atom)
		}
		cells = append(cells, cell)
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("kb: reading %s facts: %v", sym.Symbol, err))
	}
	return cells
}

func cellFromAtom(atom ast.Atom) (Cell, bool) {
	if len(atom.Args) != 2 {
		return Cell{}, false
	}
	row, ok := numArg(atom.Args[0])
	if !ok {
		return Cell{}, false
	}
	col, ok := numArg(atom.Args[1])
	if !ok {
		return Cell{}, false
	}
	return Cell{Row: int(row), Col: int(col)}, true
}

func numArg(term ast.BaseTerm) (int64, bool) {
	c, ok := term.(ast.Constant)
	if !ok || c.Type != ast.NumberType {
		return 0, false
	}
	return c.NumValue, true
}
