package lower

import (
	"fmt"

	"signalcore/internal/ast"
	"signalcore/internal/ir"
	"signalcore/internal/source"
	"signalcore/internal/types"
)

// funcBuilder accumulates one Function's blocks while lowering its
// body. It mirrors the teacher's internal/mir/gen/builder.go
// functionBuilder: newBlock/switchTo create and move between blocks,
// emit/term append to whichever block is current and become no-ops
// once that block already has a terminator, and loop targets push/pop
// on a stack so nested loops' break/continue resolve to the right
// enclosing block.
type funcBuilder struct {
	l   *lowerer
	fn  *ir.Function
	ctx *procLowerCtx

	localOf   map[*ast.ConstantDecl]ir.LocalID
	nextLocal ir.LocalID
	nextBlock ir.BlockID
	nameCount map[string]int
	cur       *ir.Block
	loopStack []loopTargets
}

type loopTargets struct {
	breakTo    ir.BlockID
	continueTo ir.BlockID
}

func newFuncBuilder(l *lowerer, fn *ir.Function, ctx *procLowerCtx) *funcBuilder {
	b := &funcBuilder{
		l:         l,
		fn:        fn,
		ctx:       ctx,
		localOf:   make(map[*ast.ConstantDecl]ir.LocalID),
		nameCount: make(map[string]int),
	}
	b.nextLocal = ir.LocalID(len(fn.Params))
	for i, p := range fn.Params {
		p.ID = ir.LocalID(i)
	}
	return b
}

func (b *funcBuilder) allocLocal(name string, t types.Type) ir.LocalID {
	id := b.nextLocal
	b.nextLocal++
	b.fn.Locals = append(b.fn.Locals, &ir.Local{ID: id, Name: name, Type: t})
	return id
}

func (b *funcBuilder) newBlock(prefix string) *ir.Block {
	name := prefix
	if n := b.nameCount[prefix]; n > 0 {
		name = fmt.Sprintf("%s_%d", prefix, n)
	}
	b.nameCount[prefix]++
	blk := &ir.Block{ID: b.nextBlock, Name: name}
	b.nextBlock++
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

func (b *funcBuilder) switchTo(blk *ir.Block) { b.cur = blk }

func (b *funcBuilder) emit(s ir.Statement) {
	if b.cur == nil || b.cur.Term != nil {
		return
	}
	b.cur.Stmts = append(b.cur.Stmts, s)
}

// term sets the current block's terminator, a no-op if it already has
// one: an arm that itself ends in return/break/continue has already
// terminated its block, and the caller's own fallthrough jump must not
// clobber that terminator.
func (b *funcBuilder) term(t ir.Terminator) {
	if b.cur == nil || b.cur.Term != nil {
		return
	}
	b.cur.Term = t
}

func (b *funcBuilder) jumpTo(loc source.Location, target *ir.Block) {
	b.term(&ir.Jump{Target: target.ID, Location: loc})
}

func (b *funcBuilder) branch(loc source.Location, cond ir.Expr, then, els *ir.Block) {
	b.term(&ir.Branch{Cond: cond, Then: then.ID, Else: els.ID, Location: loc})
}

func (b *funcBuilder) pushLoop(breakTo, continueTo ir.BlockID) {
	b.loopStack = append(b.loopStack, loopTargets{breakTo, continueTo})
}

func (b *funcBuilder) popLoop() {
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
}

func (b *funcBuilder) currentLoop() loopTargets {
	return b.loopStack[len(b.loopStack)-1]
}

// finish closes out the function once its body has lowered: the first
// block created is always the entry, and a function whose body falls
// off the end without an explicit return gets an implicit void return,
// whatever the function's declared return type.
func (b *funcBuilder) finish(loc source.Location) {
	if len(b.fn.Blocks) > 0 {
		b.fn.Entry = b.fn.Blocks[0].ID
	}
	if b.cur != nil && b.cur.Term == nil {
		b.term(&ir.Return{Location: loc})
	}
}

func (b *funcBuilder) isGenuineConstant(decl *ast.ConstantDecl) bool {
	return b.l.constDecls[decl]
}

func (b *funcBuilder) stateVarID(decl *ast.StateVarDecl) (ir.LocalID, bool) {
	local, ok := b.stateVarLocal(decl)
	if !ok {
		return 0, false
	}
	return local.ID, true
}

func (b *funcBuilder) stateVarLocal(decl *ast.StateVarDecl) (*ir.Local, bool) {
	if b.ctx == nil {
		return nil, false
	}
	local, ok := b.ctx.stateVars[decl]
	return local, ok
}
