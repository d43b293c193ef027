// Package analyzer runs the full bundle pipeline: kind detection, archive
// extraction, node discovery and the check engine, and assembles the report.
//
// Each stage completes before the next begins. Detection, extraction and
// discovery failures end the run; check failures are recorded in the report.
//
//	a := &analyzer.Analyzer{Version: version}
//	rep, err := a.Analyze(ctx, "bundle.zip")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rep.Summary.Alerted)
//
// Zero-value fields fall back to the embedded marker table, the built-in
// checks and an extractor that unpacks next to the archive.
package analyzer
