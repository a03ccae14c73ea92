package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Print writes the report as fixed-width columns followed by a statistics
// block.
func Print(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "Toll revenue report\n\n")
	fmt.Fprintf(bw, "%-24s%-24s%-12s%-12s%s\n", "id", "type", "total fee", "passes", "fee/pass")
	for _, row := range rep.Rows {
		fmt.Fprintf(bw, "%-24s%-24s%-12d%-12d%s\n",
			row.VehicleID, row.VehicleType, row.Fee.Amount, row.Passes, row.FeePerPass.StringFixed(precision))
		for _, d := range row.Days {
			fmt.Fprintf(bw, "  %-22s%d\n", d.Date.Format("2006-01-02 Mon"), d.Fee.Amount)
		}
	}

	s := rep.Summary
	fmt.Fprint(bw, "\nStatistics\n")
	stat(bw, "total vehicles", strconv.Itoa(s.Vehicles))
	stat(bw, "total fees", s.TotalFees.String())
	stat(bw, "total passes", strconv.Itoa(s.TotalPasses))
	stat(bw, "fee/vehicle", s.FeePerVehicle.StringFixed(precision))
	stat(bw, "fee/pass", s.FeePerPass.StringFixed(precision))
	if s.Failed > 0 {
		stat(bw, "failed", strconv.Itoa(s.Failed))
	}

	return bw.Flush()
}

func stat(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-16s%s\n", label, value)
}
