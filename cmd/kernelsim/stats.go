package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/viant/kernelsim/model"
)

func writeStats(w io.Writer, report *model.Report) {
	rows := make([][]string, 0, len(report.Processes))
	for _, p := range report.Processes {
		rows = append(rows, []string{
			strconv.Itoa(p.PID),
			p.Type,
			strconv.Itoa(p.Priority),
			strconv.Itoa(p.Arrival),
			optional(p.Response()),
			strconv.Itoa(p.CPUTime),
			strconv.Itoa(p.WaitTime),
			optional(p.Turnaround),
			p.Status,
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Type", "Priority", "Arrival", "Response", "CPU", "Wait", "Turnaround", "Status"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("Average\n%.2f", report.AverageResponse()),
		fmt.Sprintf("Busy\n%.1f%%", report.Utilization()*100),
		fmt.Sprintf("Average\n%.2f", report.AverageWait()),
		fmt.Sprintf("Average\n%.2f", report.AverageTurnaround()),
		fmt.Sprintf("Switches\n%d", report.ContextSwitches),
	})
	table.Render()
}

func writeSummary(w io.Writer, reports []*model.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Scenario", "Algorithm", "Status", "Time", "Processes", "Dropped", "Trapped", "Avg Turnaround"})
	for _, report := range reports {
		table.Append([]string{
			report.ScenarioURL,
			report.Algorithm,
			report.Status,
			strconv.Itoa(report.VirtualTime),
			strconv.Itoa(len(report.Processes)),
			strconv.Itoa(report.Dropped),
			strconv.Itoa(report.Trapped),
			fmt.Sprintf("%.2f", report.AverageTurnaround()),
		})
	}
	table.Render()
}

func optional(value int) string {
	if value < 0 {
		return "-"
	}
	return strconv.Itoa(value)
}
