// Package fluxdiff cross-validates floppy controller traces from MAME and
// vsim and reports where the two emulators first disagree.
//
// Quick start:
//
//	d, err := fluxdiff.New(fluxdiff.WithVerbosity("full"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, _ := d.Compare("bytes", mameText, vsimText)
//	fmt.Println(r.Status, r.FirstDivergence)
//
// A Differ holds no per-comparison state and is safe for concurrent use.
package fluxdiff
