//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-dmri/internal/webdemo"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	api.Set("init", export(func(_ []js.Value) any {
		engine = webdemo.NewEngine()
		return js.Null()
	}))

	api.Set("setParams", export(func(args []js.Value) any {
		if engine == nil || len(args) < 3 {
			return js.Null()
		}
		if err := engine.SetParams(args[0].Float(), args[1].Float(), args[2].Float()); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setOrientation", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		engine.SetOrientation(args[0].Float(), args[1].Float())
		return js.Null()
	}))

	api.Set("signalCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		return toFloat32Array(engine.SignalCurve(toFloats(args[0])))
	}))

	api.Set("angleCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Global().Get("Float32Array").New(0)
		}
		return toFloat32Array(engine.AngleCurve(toFloats(args[0]), args[1].Float()))
	}))

	api.Set("dispersionCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Global().Get("Float32Array").New(0)
		}
		return toFloat32Array(engine.DispersionCurve(toFloats(args[0]), args[1].Float()))
	}))

	api.Set("diffusivities", export(func(_ []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		par, perp := engine.Diffusivities()
		obj := js.Global().Get("Object").New()
		obj.Set("par", par)
		obj.Set("perp", perp)
		return obj
	}))

	js.Global().Set("AlgoDMRIDemo", api)
	select {}
}

func toFloats(arr js.Value) []float64 {
	out := make([]float64, arr.Length())
	for i := range out {
		out[i] = arr.Index(i).Float()
	}
	return out
}

func toFloat32Array(values []float64) js.Value {
	arr := js.Global().Get("Float32Array").New(len(values))
	for i, v := range values {
		arr.SetIndex(i, v)
	}
	return arr
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
