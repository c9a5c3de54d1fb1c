// Command mkprotocol builds a protocol file from FSL bvec/bval files,
// optionally attaching constant sequence timing columns.
//
// Usage:
//
//	mkprotocol -bvec dirs.bvec -bval vals.bval -o scheme.prtcl
//
// Examples:
//
//	mkprotocol -bvec d.bvec -bval d.bval -o out.prtcl
//	mkprotocol -bvec d.bvec -bval d.bval -Delta 0.030 -delta 0.020 -TE 0.070 -o out.prtcl
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-dmri/dmri/protocol"
)

func main() {
	bvec := flag.String("bvec", "", "gradient direction file (FSL bvec)")
	bval := flag.String("bval", "", "b-value file (FSL bval)")
	out := flag.String("o", "", "output protocol file (.prtcl)")
	scale := flag.Float64("scale", 0, "b-value scale to s/m^2 (0 = auto detect)")
	bigDelta := flag.Float64("Delta", 0, "pulse separation in s (0 = omit)")
	smallDelta := flag.Float64("delta", 0, "pulse duration in s (0 = omit)")
	te := flag.Float64("TE", 0, "echo time in s (0 = omit)")
	tr := flag.Float64("TR", 0, "repetition time in s (0 = omit)")
	maxG := flag.Float64("maxG", 0, "maximum gradient amplitude in T/m (0 = omit)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mkprotocol -bvec f -bval f -o out.prtcl [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Builds a .prtcl protocol from FSL bvec/bval files.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *bvec == "" || *bval == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	tbl, err := protocol.LoadBvecBval(*bvec, *bval, *scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, col := range []struct {
		name  string
		value float64
	}{
		{"Delta", *bigDelta},
		{"delta", *smallDelta},
		{"TE", *te},
		{"TR", *tr},
		{"maxG", *maxG},
	} {
		if col.value > 0 {
			tbl.SetScalar(col.name, col.value)
		}
	}

	if err := protocol.Save(tbl, *out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d rows, %d columns\n", *out, tbl.Len(), tbl.NumColumns())
}
