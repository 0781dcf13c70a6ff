package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DiffOptions configures how diffs are generated. Zero values pick defaults.
type DiffOptions struct {
	ContextLines int // default 3
	TabWidth     int // default 4
	Width        int // truncate lines wider than this; default terminal width
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

type editOp int

const (
	opUnchanged editOp = iota
	opAdded
	opRemoved
)

type diffLine struct {
	oldLine int // 0 if added
	newLine int // 0 if removed
	text    string
	op      editOp
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []diffLine
}

// GenerateDiff returns a unified diff of old and newer, or "" when they are
// identical.
func GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	o := DiffOptions{ContextLines: 3, TabWidth: 4}
	if opts != nil {
		if opts.ContextLines > 0 {
			o.ContextLines = opts.ContextLines
		}
		if opts.TabWidth > 0 {
			o.TabWidth = opts.TabWidth
		}
		o.Width = opts.Width
	}
	if o.Width <= 0 {
		o.Width = terminalWidth()
	}

	if bytes.Equal(old, newer) {
		return ""
	}
	if bytes.IndexByte(old, 0) >= 0 || bytes.IndexByte(newer, 0) >= 0 {
		return "Binary files differ\n"
	}

	oldLines, newLines := splitLines(old), splitLines(newer)
	if len(oldLines)+len(newLines) > 200000 {
		return fmt.Sprintf("Files too large for diff (%d and %d lines)\n", len(oldLines), len(newLines))
	}

	hunks := buildHunks(editScript(oldLines, newLines), o.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("--- "+oldPath) + "\n")
	b.WriteString(headerStyle.Render("+++ "+newPath) + "\n")
	for _, h := range hunks {
		writeHunk(&b, h, o)
	}
	return b.String()
}

// editScript computes a shortest edit script with Myers' O(ND) algorithm.
func editScript(a, b []string) []diffLine {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)
	var trace [][]int

search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	var rev []diffLine
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		prevK := k - 1
		if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
			prevK = k + 1
		}
		prevX := v[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, diffLine{oldLine: x + 1, newLine: y + 1, text: a[x], op: opUnchanged})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, diffLine{newLine: y + 1, text: b[y], op: opAdded})
		} else {
			x--
			rev = append(rev, diffLine{oldLine: x + 1, text: a[x], op: opRemoved})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// buildHunks groups changes with up to context unchanged lines around them.
// Changes separated by more than 2*context unchanged lines form separate hunks.
func buildHunks(lines []diffLine, context int) []hunk {
	var changed []int
	for i, l := range lines {
		if l.op != opUnchanged {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var hunks []hunk
	start := max(changed[0]-context, 0)
	end := min(changed[0]+context+1, len(lines))
	for _, i := range changed[1:] {
		if i-context <= end {
			end = min(i+context+1, len(lines))
			continue
		}
		hunks = append(hunks, newHunk(lines[start:end]))
		start = max(i-context, 0)
		end = min(i+context+1, len(lines))
	}
	return append(hunks, newHunk(lines[start:end]))
}

func newHunk(lines []diffLine) hunk {
	h := hunk{lines: lines}
	for _, l := range lines {
		if l.oldLine > 0 && h.oldStart == 0 {
			h.oldStart = l.oldLine
		}
		if l.newLine > 0 && h.newStart == 0 {
			h.newStart = l.newLine
		}
		if l.op != opAdded {
			h.oldCount++
		}
		if l.op != opRemoved {
			h.newCount++
		}
	}
	return h
}

func writeHunk(b *strings.Builder, h hunk, o DiffOptions) {
	b.WriteString(hunkStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)) + "\n")
	for _, l := range h.lines {
		text := truncate(expandTabs(l.text, o.TabWidth), o.Width-2)
		switch l.op {
		case opAdded:
			b.WriteString(addedStyle.Render("+"+text) + "\n")
		case opRemoved:
			b.WriteString(removedStyle.Render("-"+text) + "\n")
		default:
			b.WriteString(" " + text + "\n")
		}
	}
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 78
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
