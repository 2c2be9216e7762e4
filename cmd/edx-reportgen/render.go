// ABOUTME: Console rendering of batch results.
// ABOUTME: Per-course outcome table plus a colored summary line.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/nau-tools/edx-reportgen/internal/report"
)

func renderBatch(batch report.BatchResult, reportName string) {
	header := fmt.Sprintf("REPORT '%s' — %d course(s)", reportName, batch.Total)
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println(header)

	widths := messageColumnWidths(batch)

	table := tablewriter.NewWriter(os.Stdout)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Formatting.AutoWrap = tw.WrapTruncate
		cfg.Row.Alignment.PerColumn = []tw.Align{
			tw.AlignLeft, // Course
			tw.AlignLeft, // Status
			tw.AlignLeft, // Message
		}
		cfg.Widths.PerColumn = map[int]int{
			0: widths.course,
			1: widths.status,
			2: widths.message,
		}
	})
	table.Header("Course", "", "Message")

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, res := range batch.Results {
		msg := strings.TrimPrefix(res.Message, res.CourseID+": ")
		if res.Success {
			table.Append(res.CourseID, green.Sprint("✓"), msg)
		} else {
			table.Append(res.CourseID, red.Sprint("✗"), truncateMessage(msg, widths.message))
		}
	}
	table.Render()

	fmt.Println()
	color.New(color.FgGreen).Printf("%d submitted", batch.SuccessCount)
	fmt.Print(" | ")
	color.New(color.FgRed).Printf("%d failed", batch.FailedCount)
	fmt.Println()
	color.New(color.Faint).Println("Generated reports appear later under the course's Instructor > Data Download tab.")
}

type resultWidths struct {
	course  int
	status  int
	message int
}

// messageColumnWidths sizes the table to the terminal, letting the message
// column absorb whatever the course IDs do not need.
func messageColumnWidths(batch report.BatchResult) resultWidths {
	const (
		statusWidth = 3
		overhead    = 12 // column separators + padding
		minWidth    = 80
	)

	termWidth := 120 // default
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		termWidth = w
	}
	if termWidth < minWidth {
		termWidth = minWidth
	}

	maxCourse := len("Course")
	for _, res := range batch.Results {
		if len(res.CourseID) > maxCourse {
			maxCourse = len(res.CourseID)
		}
	}

	message := termWidth - maxCourse - statusWidth - overhead
	if message < 20 {
		message = 20
	}

	return resultWidths{course: maxCourse, status: statusWidth, message: message}
}

func truncateMessage(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}
