package model

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dmri/dmri/compartment"
	"github.com/cwbudde/algo-dmri/dmri/core"
)

// scratchBuf holds pooled scratch memory for block evaluation.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (*scratchBuf, []float64) {
	buf := scratchPool.Get().(*scratchBuf)
	if cap(buf.data) < n {
		buf.data = make([]float64, n)
	} else {
		buf.data = buf.data[:n]
	}
	return buf, buf.data
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// EvalAll evaluates the model for every sample and returns the signals.
// dst is reused when it has enough capacity, so in steady state the
// call does not allocate. Compartments are evaluated column-wise and
// combined with vectorized block operations.
func (m *Model) EvalAll(samples []compartment.Sample, x, dst []float64) []float64 {
	n := len(samples)
	dst = core.EnsureLen(dst, n)
	if n == 0 {
		return dst
	}
	core.Zero(dst)

	buf, scratch := getScratch(len(m.slots) + n)
	vals := scratch[:len(m.slots)]
	col := scratch[len(m.slots):]
	m.fillValues(vals, x)

	for _, b := range m.wBlocks {
		p := vals[b.start:b.end]
		for j := range samples {
			col[j] = b.comp.Eval(samples[j], p)
		}
		vecmath.ScaleBlockInPlace(col, vals[b.weight])
		vecmath.AddBlockInPlace(dst, col)
	}

	vecmath.ScaleBlockInPlace(dst, vals[0])

	for _, b := range m.dBlocks {
		p := vals[b.start:b.end]
		for j := range samples {
			col[j] = b.comp.Eval(samples[j], p)
		}
		vecmath.MulBlockInPlace(dst, col)
	}

	putScratch(buf)
	return dst
}
