// Package formatter provides functionality for formatting and displaying ranked groups.
package formatter

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/groups"
)

// FormatTable formats ranked groups as a table string
func FormatTable(ranked []groups.RankedGroup) string {
	if len(ranked) == 0 {
		return ""
	}

	// Build table data
	headers := []string{"Name", "Category", "City", "Members", "Distance"}
	rows := make([][]string, len(ranked))

	for i, g := range ranked {
		rows[i] = []string{
			g.Name,
			g.Category,
			g.City,
			fmt.Sprintf("%d", g.MemberCount),
			formatDistance(g.Distance),
		}
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			cellWidth := utf8.RuneCountInString(cell)
			if cellWidth > widths[i] {
				widths[i] = cellWidth
			}
		}
	}

	// Build table output
	var output strings.Builder

	// Header row
	headerParts := make([]string, len(headers))
	for i, header := range headers {
		headerParts[i] = padRight(header, widths[i])
	}
	output.WriteString(strings.Join(headerParts, "   "))
	output.WriteString("\n")

	// Separator row
	separators := make([]string, len(headers))
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	output.WriteString(strings.Join(separators, "   "))
	output.WriteString("\n")

	// Data rows
	for _, row := range rows {
		rowParts := make([]string, len(row))
		for i, cell := range row {
			rowParts[i] = padRight(cell, widths[i])
		}
		output.WriteString(strings.Join(rowParts, "   "))
		output.WriteString("\n")
	}

	return output.String()
}

// FormatNearestGroup formats the reference location and the nearest group in
// a compact multi-line format
func FormatNearestGroup(reference geo.Coordinate, nearest groups.RankedGroup) string {
	const indent = "                 " // Length of "Your location: "

	var output strings.Builder

	output.WriteString(fmt.Sprintf("Your location:   (%.4f, %.4f)\n", reference.Latitude, reference.Longitude))
	output.WriteString(fmt.Sprintf("Nearest group:   %s\n", nearest.Name))
	if nearest.City != "" {
		output.WriteString(fmt.Sprintf("%s%s", indent, nearest.City))
		if nearest.Category != "" {
			output.WriteString(fmt.Sprintf(" (%s)", nearest.Category))
		}
		output.WriteString("\n")
	}
	output.WriteString(fmt.Sprintf("%s%s away, %d members\n", indent, formatDistance(nearest.Distance), nearest.MemberCount))

	return output.String()
}

// padRight pads a string with spaces on the right to reach the specified width
func padRight(s string, width int) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runeCount)
}

// formatDistance formats a distance value for display
func formatDistance(distance float64) string {
	if math.IsInf(distance, 1) {
		return "no location"
	}
	return geo.FormatDistance(distance)
}
