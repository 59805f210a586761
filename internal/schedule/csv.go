package schedule

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteSweepCSV writes the cost curve, one row per partition count.
func WriteSweepCSV(path string, result *SweepResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"parts",
		"total_cost",
		"purchased_mwh",
		"unpurchased_mwh",
		"executions",
		"error",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, e := range result.Entries {
		row := []string{
			strconv.Itoa(e.Parts),
			fmtFloat(e.TotalCost),
			fmtFloat(e.PurchasedMWh),
			fmtFloat(e.UnpurchasedMWh),
			strconv.Itoa(e.Executions),
			e.Err,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WritePlanCSV writes the per-segment ledger of one scheduling pass. Segments
// that bought nothing still get a row, with empty execution columns.
func WritePlanCSV(path string, plan *Plan) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"segment",
		"start",
		"end",
		"reference",
		"executed",
		"executed_index",
		"executed_price",
		"fallback",
		"volume_mwh",
		"cost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	volumes := make(map[int]float64, len(plan.Executions))
	for _, ex := range plan.Executions {
		volumes[ex.Segment] = ex.VolumeMWh
	}

	for i, seg := range plan.Segments {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(seg.Start),
			strconv.Itoa(seg.End),
			fmtFloat(seg.Reference),
			strconv.FormatBool(seg.Executed),
			"",
			"",
			strconv.FormatBool(seg.Fallback),
			"",
			"",
		}
		if seg.Executed {
			row[5] = strconv.Itoa(seg.ExecutedIndex)
			row[6] = fmtFloat(seg.ExecutedPrice)
			vol := volumes[i]
			row[8] = fmtFloat(vol)
			row[9] = fmtFloat(seg.ExecutedPrice * vol)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
