package render

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/leftmike/gcsim"
)

func testState() gcsim.State {
	return gcsim.State{
		Session:     "abc",
		Tool:        [2]gcsim.Position{{X: 20}, {Z: -3.5}},
		Line:        [2]int{2, 3},
		Stacks:      [2][]string{{"MAIN", "P100"}, {"MAIN"}},
		Variables:   map[int]float64{10: 1.5, 2: 7},
		SyncPoints:  []gcsim.SyncPoint{{Channel: gcsim.Sub, Line: 1, Kind: gcsim.Wait}},
		Breakpoints: [2][]int{{1}, nil},
		Finished:    [2]bool{false, true},
		Speed:       1,
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		f float64
		s string
	}{
		{f: 0, s: "0"},
		{f: 10, s: "10"},
		{f: -2.5, s: "-2.5"},
		{f: 4.9999999, s: "5"},
		{f: -0.0001, s: "0"},
		{f: 0.125, s: "0.125"},
	}

	for _, c := range cases {
		if s := Number(c.f); s != c.s {
			t.Errorf("Number(%v) got %s want %s", c.f, s, c.s)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		cur, n, size int
		start, end   int
	}{
		{cur: 0, n: 5, size: 12, start: 0, end: 5},
		{cur: 0, n: 20, size: 12, start: 0, end: 12},
		{cur: 10, n: 20, size: 12, start: 4, end: 16},
		{cur: 19, n: 20, size: 12, start: 8, end: 20},
		{cur: 20, n: 20, size: 12, start: 8, end: 20},
	}

	for _, c := range cases {
		start, end := window(c.cur, c.n, c.size)
		if start != c.start || end != c.end {
			t.Errorf("window(%d, %d, %d) got %d, %d want %d, %d", c.cur, c.n, c.size, start, end,
				c.start, c.end)
		}
	}
}

func TestTrace(t *testing.T) {
	s := Trace(3, testState())
	want := "   3 CH1:3 CH2:4(done) CH1[20 0 0] CH2[0 0 -3.5] #2=7 #10=1.5 sync=1"
	if s != want {
		t.Errorf("Trace() got %q want %q", s, want)
	}
}

func TestPanels(t *testing.T) {
	progs := [2][]string{
		{"G0 X10", "G1 X20 F600", "M98 P100", "M99"},
		{"#2 = 7", "WAIT", "Z-3.5"},
	}

	for _, width := range []int{120, 40} {
		var buf bytes.Buffer
		Panels(&buf, testState(), progs, width)
		out := buf.String()
		for _, want := range []string{"CH1", "CH2", "M98 P100", "MAIN > P100", "finished",
			"#2=7", "CH2:2 WAIT", "<end>", "Session:"} {

			if !strings.Contains(out, want) {
				t.Errorf("Panels(width %d) missing %q:\n%s", width, want, out)
			}
		}
	}
}

func TestYAML(t *testing.T) {
	b, err := YAML(testState())
	if err != nil {
		t.Fatalf("YAML() failed with %s", err)
	}

	var doc stateDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() failed with %s:\n%s", err, b)
	}
	if len(doc.Channels) != 2 || doc.Channels[0].Line != 3 || doc.Channels[1].Channel != 2 {
		t.Errorf("YAML() channels got %+v", doc.Channels)
	}
	if doc.Channels[0].Breakpoints[0] != 2 || doc.Channels[1].Tool.Z != -3.5 {
		t.Errorf("YAML() channels got %+v", doc.Channels)
	}
	if doc.Variables["#10"] != 1.5 || len(doc.Variables) != 2 {
		t.Errorf("YAML() variables got %v", doc.Variables)
	}
	if len(doc.SyncPoints) != 1 || doc.SyncPoints[0] != (syncDoc{Channel: 2, Line: 2, Kind: "WAIT"}) {
		t.Errorf("YAML() sync points got %+v", doc.SyncPoints)
	}
}

func TestHTML(t *testing.T) {
	segs := [2][]gcsim.Segment{
		gcsim.Compile("G0 X10\nS1000\nG1 Y-5 F600"),
		gcsim.Compile("WAIT\nZ30"),
	}

	var buf bytes.Buffer
	err := HTML(&buf, `two "channels"`, segs, [2]gcsim.Position{{X: 10}, {}})
	if err != nil {
		t.Fatalf("HTML() failed with %s", err)
	}
	out := buf.String()
	for _, want := range []string{
		`document.title = "two \"channels\""`,
		"minPos: {x: 0, y: -5, z: 0}",
		"maxPos: {x: 10, y: 0, z: 30}",
		"{channel: 1, line: 1, cut: false, lineTo: {x: 10, y: 0, z: 0}}",
		"{channel: 1, line: 3, cut: true, lineTo: {x: 10, y: -5, z: 0}}",
		"{channel: 2, line: 2, cut: false, lineTo: {x: 0, y: 0, z: 30}}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() missing %q", want)
		}
	}
	if strings.Contains(out, "%!") {
		t.Errorf("HTML() has a formatting error")
	}
}

func TestHTMLTitleEscaped(t *testing.T) {
	var buf bytes.Buffer
	err := HTML(&buf, "part</script><script>alert(1)</script>.nc", [2][]gcsim.Segment{},
		[2]gcsim.Position{})
	if err != nil {
		t.Fatalf("HTML() failed with %s", err)
	}
	out := buf.String()
	if strings.Count(out, "</script>") != 3 {
		t.Errorf("HTML() title closed a script element:\n%s", out[:400])
	}
	if !strings.Contains(out, `document.title = "part\u003c/script\u003e`) {
		t.Errorf("HTML() title not escaped")
	}
}
