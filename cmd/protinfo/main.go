// Command protinfo prints the contents of a diffusion acquisition
// protocol: columns, shells and the weighted/unweighted split.
//
// Usage:
//
//	protinfo -protocol file.prtcl
//	protinfo -dir study/
//
// Examples:
//
//	protinfo -protocol scheme.prtcl
//	protinfo -dir /data/subject01
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-dmri/dmri/protocol"
	"github.com/cwbudde/algo-dmri/stats/roi"
)

func main() {
	protoPath := flag.String("protocol", "", "protocol file (.prtcl)")
	dir := flag.String("dir", "", "directory to auto-load a protocol from")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: protinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints columns, shells and weighting of an acquisition protocol.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var (
		tbl *protocol.Table
		err error
	)
	switch {
	case *protoPath != "":
		tbl, err = protocol.Load(*protoPath)
	case *dir != "":
		tbl, err = protocol.AutoLoad(*dir)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := printInfo(tbl); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printInfo(tbl *protocol.Table) error {
	fmt.Printf("Rows: %d\n", tbl.Len())
	fmt.Printf("Unweighted: %d, weighted: %d\n\n", len(tbl.UnweightedIndices()), len(tbl.WeightedIndices()))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Column\tKind\tMin\tMax\tMean")
	fmt.Fprintln(tw, "------\t----\t---\t---\t----")

	names := tbl.ColumnNames()
	names = append(names, tbl.EstimatedColumnNames()...)
	for _, name := range names {
		data, err := tbl.Column(name)
		if err != nil {
			return err
		}
		kind := "real"
		if !tbl.IsColumnReal(name) {
			kind = "estimated"
		}
		s := roi.Summarize(data)
		fmt.Fprintf(tw, "%s\t%s\t%.6g\t%.6g\t%.6g\n", name, kind, s.Min, s.Max, s.Mean)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	shells, err := tbl.Shells()
	if err != nil {
		// A direction-only table has no shells; not an error for info
		// output.
		fmt.Println("\nShells: none (no diffusion weighting resolvable)")
		return nil
	}

	bvals, err := tbl.Column("b")
	if err != nil {
		return err
	}
	fmt.Printf("\nShells: %d\n", len(shells))
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "b [s/m^2]\tDirections")
	for _, b := range shells {
		n := 0
		for _, v := range bvals {
			if v == b {
				n++
			}
		}
		fmt.Fprintf(tw, "%.6g\t%d\n", b, n)
	}
	return tw.Flush()
}
