package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leftmike/gcsim"
)

const (
	// MinWidth is the narrowest layout; below it the channel panels are stacked.
	MinWidth = 60

	panelLines = 12
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	currentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("33"))

	breakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	syncStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// Panels writes one panel per channel, side by side when width allows, followed by the
// shared variables and sync points.
func Panels(w io.Writer, st gcsim.State, progs [gcsim.NumChannels][]string, width int) {
	if width <= 0 {
		width = 80
	}

	var boxes []string
	inner := width/gcsim.NumChannels - 4
	if width < MinWidth {
		inner = width - 4
	}
	for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
		boxes = append(boxes, panelStyle.Width(inner).Render(channelPanel(st, ch, progs[ch])))
	}
	if width < MinWidth {
		fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, boxes...))
	} else {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}

	shared := panelStyle.Width(width - 4).Render(sharedPanel(st))
	fmt.Fprintln(w, shared)
}

func channelPanel(st gcsim.State, ch gcsim.Channel, lines []string) string {
	var b strings.Builder

	status := dimStyle.Render("ready")
	if st.Finished[ch] {
		status = doneStyle.Render("finished")
	} else if st.Running {
		status = titleStyle.Render("running")
	} else if st.Playing {
		status = titleStyle.Render("playing")
	}
	label := "MAIN"
	if ch == gcsim.Sub {
		label = "SUB"
	}
	fmt.Fprintf(&b, "%s %s  %s\n", titleStyle.Render(ch.String()), label, status)

	breaks := map[int]bool{}
	for _, line := range st.Breakpoints[ch] {
		breaks[line] = true
	}

	cur := st.Line[ch]
	start, end := window(cur, len(lines), panelLines)
	for n := start; n < end; n += 1 {
		mark := " "
		if breaks[n] {
			mark = breakStyle.Render("*")
		}
		text := fmt.Sprintf("%3d %s", n+1, lines[n])
		if n == cur {
			text = currentStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s%s\n", mark, text)
	}
	if cur >= len(lines) {
		fmt.Fprintf(&b, " %s\n", dimStyle.Render("<end>"))
	}

	fmt.Fprintf(&b, "%s %s\n", dimStyle.Render("Tool:"), Position(st.Tool[ch]))
	fmt.Fprintf(&b, "%s %s", dimStyle.Render("Stack:"), strings.Join(st.Stacks[ch], " > "))
	return b.String()
}

// window picks at most size lines of n to show, keeping cur in view.
func window(cur, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cur - size/2
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > n {
		end = n
		start = n - size
	}
	return start, end
}

func sharedPanel(st gcsim.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s ", titleStyle.Render("Variables:"))
	if len(st.Variables) == 0 {
		b.WriteString(dimStyle.Render("none"))
	} else {
		b.WriteString(Variables(st.Variables))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s ", titleStyle.Render("Sync:"))
	if len(st.SyncPoints) == 0 {
		b.WriteString(dimStyle.Render("none"))
	} else {
		var pts []string
		for _, sp := range st.SyncPoints {
			pts = append(pts, syncStyle.Render(SyncPoint(sp)))
		}
		b.WriteString(strings.Join(pts, " "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s %sx  %s %s", dimStyle.Render("Speed:"), Number(st.Speed),
		dimStyle.Render("Session:"), st.Session)
	return b.String()
}

// Trace is a single unstyled line summarizing st, for logs and step-by-step output.
func Trace(step int, st gcsim.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d", step)
	for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
		fmt.Fprintf(&b, " %s:%d", ch, st.Line[ch]+1)
		if st.Finished[ch] {
			b.WriteString("(done)")
		}
	}
	for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
		fmt.Fprintf(&b, " %s%s", ch, Position(st.Tool[ch]))
	}
	if len(st.Variables) > 0 {
		fmt.Fprintf(&b, " %s", Variables(st.Variables))
	}
	if len(st.SyncPoints) > 0 {
		fmt.Fprintf(&b, " sync=%d", len(st.SyncPoints))
	}
	return b.String()
}

func Variables(vars map[int]float64) string {
	idxs := make([]int, 0, len(vars))
	for idx := range vars {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	var s []string
	for _, idx := range idxs {
		s = append(s, fmt.Sprintf("#%d=%s", idx, Number(vars[idx])))
	}
	return strings.Join(s, " ")
}

func SyncPoint(sp gcsim.SyncPoint) string {
	return fmt.Sprintf("%s:%d %s", sp.Channel, sp.Line+1, sp.Kind)
}

func Position(pos gcsim.Position) string {
	return fmt.Sprintf("[%s %s %s]", Number(pos.X), Number(pos.Y), Number(pos.Z))
}

// Number formats f to at most three decimals, without trailing zeros.
func Number(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}
