// Package report prints homogeneity test results and renders the annotated
// rainfall chart.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/chrissnell/rainhomog/internal/detector"
)

// Interpretation returns the sentence describing a classification.
func Interpretation(c detector.Classification) string {
	if c == detector.Homogeneous {
		return "Dataset is temporally homogeneous (no significant change detected)."
	}
	return "Significant change detected — possible inhomogeneity."
}

// Caption returns the one-line summary drawn beneath the chart.
func Caption(testName string, r detector.TestResult, c detector.Classification) string {
	homogeneous := "No"
	if c == detector.Homogeneous {
		homogeneous = "Yes"
	}
	return fmt.Sprintf("%s Test: p = %s  |  Homogeneous = %s", testName, formatFloat(r.PValue, 3), homogeneous)
}

// WriteSummary prints the statistic, p-value, change point and
// interpretation of a test result.
func WriteSummary(w io.Writer, testName string, r detector.TestResult, c detector.Classification) error {
	cp := "undefined"
	if v, ok := r.ChangePoint.Get(); ok {
		cp = strconv.Itoa(v)
	}

	_, err := fmt.Fprintf(w,
		"===== %s Homogeneity Test =====\n"+
			"Statistic = %s\n"+
			"P-value   = %s\n"+
			"Change point index = %s\n"+
			"\nInterpretation: %s\n",
		testName,
		formatFloat(r.Statistic, 3),
		formatFloat(r.PValue, 4),
		cp,
		Interpretation(c),
	)
	return err
}

func formatFloat(o detector.Optional[float64], decimals int) string {
	v, ok := o.Get()
	if !ok {
		v = math.NaN()
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
