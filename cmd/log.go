package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/PolarWolf314/capi/internal/audit"
	"github.com/PolarWolf314/capi/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logFile    string
	logLimit   int
	logReverse bool
	logSlots   bool
	logJSON    bool
)

func init() {
	logCmd.Flags().StringVar(&logFile, "file", "", "access log to read (default access_log from config)")
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().BoolVar(&logSlots, "slots", false, "summarize successful lookups per API key slot")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON")
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the access log",
	Long: `Displays the access log written by serve --access-log.

Each line shows when a lookup happened, its outcome, the requested
identifier and the API key slot that authenticated it. Keys themselves are
never logged.

Examples:
  capi log                      # View full log
  capi log -n 20 --reverse      # 20 most recent entries
  capi log --slots              # Lookups per API key slot
  capi log --file access.jsonl --json`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	path := logFile
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.AccessLog
	}
	if path == "" {
		return fmt.Errorf("no access log configured, pass --file or set access_log in %s", ui.Path.Sprint("capi.toml"))
	}

	entries, err := audit.ReadEntries(path)
	if err != nil {
		return fmt.Errorf("failed to read access log: %w", err)
	}
	Logger.Debugf("Parsed %d entries from %s", len(entries), path)

	out := cmd.OutOrStdout()
	if logSlots {
		return outputSlotUsage(out, audit.SlotUsage(entries))
	}

	if logReverse {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	if logLimit > 0 && len(entries) > logLimit {
		if logReverse {
			entries = entries[:logLimit]
		} else {
			entries = entries[len(entries)-logLimit:]
		}
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No access log entries found.")
		return nil
	}

	if logJSON {
		return writeJSON(out, entries)
	}
	for _, e := range entries {
		outputLogLine(out, e)
	}
	return nil
}

func outputLogLine(out io.Writer, e audit.Entry) {
	outcome := e.Outcome
	switch e.Outcome {
	case audit.OutcomeOK:
		outcome = ui.Success.Sprint(outcome)
	case audit.OutcomeNotFound:
		outcome = ui.Warning.Sprint(outcome)
	default:
		outcome = ui.Error.Sprint(outcome)
	}

	line := fmt.Sprintf("%s  %-11s /%s", e.Timestamp, outcome, e.Requested)
	if e.RecordID != 0 {
		line += fmt.Sprintf(" -> %d", e.RecordID)
	}
	if e.KeySlot != "" {
		line += "  " + ui.Muted.Sprint(e.KeySlot)
	}
	fmt.Fprintln(out, line)
}

func outputSlotUsage(out io.Writer, usage map[string]int) error {
	if logJSON {
		return writeJSON(out, usage)
	}
	if len(usage) == 0 {
		fmt.Fprintln(out, "No successful lookups recorded.")
		return nil
	}

	slots := make([]string, 0, len(usage))
	for slot := range usage {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool {
		if usage[slots[i]] != usage[slots[j]] {
			return usage[slots[i]] > usage[slots[j]]
		}
		return slots[i] < slots[j]
	})

	for _, slot := range slots {
		fmt.Fprintf(out, "%-16s %d\n", slot, usage[slot])
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
