package tradingview

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jwtly10/pivotbook/internal/account"
	"github.com/jwtly10/pivotbook/internal/pivot"
)

func allowDump() bool {
	// Get OS Env for dump DEBUG_DUMP=1 etc
	debugDump := os.Getenv("DEBUG_DUMP")
	if debugDump == "1" {
		slog.Info("DEBUG_DUMP=1, dumping to stdout")
		return true
	}

	return false
}

// DumpPineScript prints the script to stdout when DEBUG_DUMP=1.
func DumpPineScript(trades []account.Trade, records []pivot.Record) {
	if !allowDump() {
		return
	}

	fmt.Println(generatePivotPinescript(records) + generateTradePinescript(trades))
}

// WritePineScript writes pivot lines followed by trade markers to w.
func WritePineScript(w io.Writer, trades []account.Trade, records []pivot.Record) error {
	if _, err := io.WriteString(w, generatePivotPinescript(records)); err != nil {
		return fmt.Errorf("write pivot levels: %w", err)
	}
	if _, err := io.WriteString(w, generateTradePinescript(trades)); err != nil {
		return fmt.Errorf("write trade markers: %w", err)
	}
	return nil
}

// ExportFile writes the script to path, replacing any existing file.
func ExportFile(path string, trades []account.Trade, records []pivot.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WritePineScript(f, trades, records); err != nil {
		return err
	}
	slog.Info("Exported Pine Script", "path", path, "trades", len(trades), "pivots", len(records))
	return f.Close()
}

var levelColors = map[pivot.Level]string{
	pivot.PP: "color.yellow",
	pivot.R1: "color.red",
	pivot.R2: "color.red",
	pivot.R3: "color.red",
	pivot.S1: "color.green",
	pivot.S2: "color.green",
	pivot.S3: "color.green",
}

// generatePivotPinescript draws each level as a step line that switches value
// at every record's date.
func generatePivotPinescript(records []pivot.Record) string {
	if len(records) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("// ============================================\n")
	sb.WriteString("// PIVOT LEVELS\n")
	sb.WriteString("// ============================================\n\n")

	for _, l := range pivot.AllLevels {
		sb.WriteString(fmt.Sprintf("var float %s = na\n", pineVar(l)))
	}
	sb.WriteString("\n")

	for _, r := range records {
		sb.WriteString(fmt.Sprintf("if time >= %s\n", formatPineTimestamp(r.Date)))
		for _, l := range pivot.AllLevels {
			v, _ := r.Get(l)
			sb.WriteString(fmt.Sprintf("    %s := %s\n", pineVar(l), pineFloat(v)))
		}
	}
	sb.WriteString("\n")

	for _, l := range pivot.AllLevels {
		sb.WriteString(fmt.Sprintf("plot(%s, title=\"%s\", color=%s, style=plot.style_stepline)\n",
			pineVar(l), l, levelColors[l]))
	}
	sb.WriteString("\n")

	return sb.String()
}

func pineVar(l pivot.Level) string {
	return "pivot_" + strings.ToLower(string(l))
}

func pineFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "na"
	}
	return fmt.Sprintf("%.5f", v)
}

// generateTradePinescript generates the Pine Script code for visualizing trades on a chart.
// It accepts a slice of Trade objects and returns a string containing Pine Script with markers
// for entries and exits, coded with relevant details like timestamps, prices, PnL, and reasons.
func generateTradePinescript(trades []account.Trade) string {
	var sb strings.Builder

	sb.WriteString("// ============================================\n")
	sb.WriteString("// TRADE VALIDATION MARKERS\n")
	sb.WriteString("// ============================================\n\n")

	for _, trade := range trades {
		entryTimestamp := formatPineTimestamp(trade.EntryTime)
		entryText := fmt.Sprintf("#%d %s\\nEntry: %.5f\\nTP: %.5f\\nSL: %.5f",
			trade.ID, trade.Direction, trade.EntryPrice, trade.TakeProfit, trade.StopLoss)
		if trade.EntryReason != "" {
			entryText += "\\n" + trade.EntryReason
		}

		sb.WriteString(fmt.Sprintf("t%d_entry = time == %s\n", trade.ID, entryTimestamp))
		sb.WriteString(fmt.Sprintf("plotshape(t%d_entry, title=\"#%d %s Entry\", location=location.bottom, color=color.blue, style=shape.labelup, size=size.small, text=\"%s\", textcolor=color.white)\n\n",
			trade.ID, trade.ID, trade.Direction, entryText))

		exitTimestamp := formatPineTimestamp(trade.ExitTime)
		exitColor := exitColor(trade.ExitReason)
		exitText := fmt.Sprintf("#%d EXIT\\nExit: %.5f\\nP&L: %.2f\\n%s",
			trade.ID, trade.ExitPrice, trade.PnL, trade.ExitReason)

		sb.WriteString(fmt.Sprintf("t%d_exit = time == %s\n", trade.ID, exitTimestamp))
		sb.WriteString(fmt.Sprintf("plotshape(t%d_exit, title=\"#%d EXIT\", location=location.top, color=%s, style=shape.labeldown, size=size.small, text=\"%s\", textcolor=color.white)\n\n",
			trade.ID, trade.ID, exitColor, exitText))
	}

	return sb.String()
}

func exitColor(reason string) string {
	switch reason {
	case account.ReasonStopLoss:
		return "color.red"
	case account.ReasonEndOfTest:
		return "color.gray"
	default:
		return "color.green"
	}
}

func formatPineTimestamp(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("timestamp(\"UTC\", %d, %d, %d, %d, %d)",
		utc.Year(), int(utc.Month()), utc.Day(), utc.Hour(), utc.Minute())
}
