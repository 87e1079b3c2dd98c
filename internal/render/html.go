package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/leftmike/gcsim"
)

// HTML writes a standalone page which draws the toolpath of both channels with zdog.
// Moves with the spindle running are drawn solid and the rest thin; tools marks the
// current tool positions.
func HTML(w io.Writer, title string, segs [gcsim.NumChannels][]gcsim.Segment,
	tools [gcsim.NumChannels]gcsim.Position) error {

	lo, hi := bounds(segs, tools)

	var config strings.Builder
	fmt.Fprintf(&config, "  minPos: %s,\n", point(lo))
	fmt.Fprintf(&config, "  maxPos: %s,\n", point(hi))
	fmt.Fprintf(&config, "  tools: [%s, %s],", point(tools[gcsim.Main]), point(tools[gcsim.Sub]))

	var cmds strings.Builder
	for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
		fmt.Fprintf(&cmds, "  {channel: %d, moveTo: %s},\n", ch.Number(), point(gcsim.Position{}))
		for _, seg := range segs[ch] {
			if !seg.Moved {
				continue
			}
			fmt.Fprintf(&cmds, "  {channel: %d, line: %d, cut: %t, lineTo: %s},\n", ch.Number(),
				seg.Line+1, seg.Spindle != 0, point(seg.Pos))
		}
	}

	b, err := json.Marshal(title)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, viewHTML, b, config.String(), cmds.String())
	return err
}

func bounds(segs [gcsim.NumChannels][]gcsim.Segment,
	tools [gcsim.NumChannels]gcsim.Position) (gcsim.Position, gcsim.Position) {

	var lo, hi gcsim.Position
	grow := func(pos gcsim.Position) {
		if pos.X < lo.X {
			lo.X = pos.X
		}
		if pos.Y < lo.Y {
			lo.Y = pos.Y
		}
		if pos.Z < lo.Z {
			lo.Z = pos.Z
		}
		if pos.X > hi.X {
			hi.X = pos.X
		}
		if pos.Y > hi.Y {
			hi.Y = pos.Y
		}
		if pos.Z > hi.Z {
			hi.Z = pos.Z
		}
	}

	for ch := range segs {
		for _, seg := range segs[ch] {
			grow(seg.Pos)
		}
		grow(tools[ch])
	}
	return lo, hi
}

func point(pos gcsim.Position) string {
	return fmt.Sprintf("{x: %s, y: %s, z: %s}", Number(pos.X), Number(pos.Y), Number(pos.Z))
}

const viewHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
    <style type="text/css">
      canvas { border: 1px solid black; }
    </style>
    <script src="https://unpkg.com/zdog@1/dist/zdog.dist.js"></script>
  </head>
  <body>
    <canvas class="gcsim-view" width="600" height="600"></canvas>
    <script type="text/javascript">
document.title = %s

const config = {
%s
}

const cmds = [
%s
]
    </script>
    <script type="text/javascript">
let displaySize = 600;
let channelColors = ['#1e90ff', '#ff8c00'];

let size = Math.max(config.maxPos.x - config.minPos.x, config.maxPos.y - config.minPos.y,
  config.maxPos.z - config.minPos.z, 1);

let gcsimView = document.querySelector(".gcsim-view")

let illo = new Zdog.Illustration({
  element: gcsimView,
  scale: {x: 1.0, y: -1.0, z: 1.0},
  rotate: {x: 1.1, y: 0, z: -0.3},
  zoom: displaySize / (size * 2),
});

gcsimView.onwheel = function(event) {
  illo.zoom -= (event.deltaY * 0.001 * illo.zoom)
  if (illo.zoom < 0.01) {
    illo.zoom = 0.01
  }
  animate()
}

let dragStartRX, dragStartRZ;
let isDragging = false;

new Zdog.Dragger({
  startElement: gcsimView,
  onDragStart: function() {
    dragStartRX = illo.rotate.x;
    dragStartRZ = illo.rotate.z;
    isDragging = true;
    animate();
  },
  onDragMove: function( pointer, moveX, moveY ) {
    illo.rotate.x = dragStartRX - ( moveY / displaySize * Zdog.TAU );
    illo.rotate.z = dragStartRZ - ( moveX / displaySize * Zdog.TAU );
  },
  onDragEnd: function () {
    isDragging = false;
  },
});

let workspace = new Zdog.Anchor({
  addTo: illo,
  translate: {
    x: -(config.minPos.x + config.maxPos.x) / 2,
    y: -(config.minPos.y + config.maxPos.y) / 2,
    z: -(config.minPos.z + config.maxPos.z) / 2,
  },
})

let lo = config.minPos, hi = config.maxPos;
new Zdog.Shape({
  addTo: workspace,
  stroke: size / 600,
  color: 'grey',
  path: [
    {x: lo.x, y: lo.y, z: lo.z},
    {x: hi.x, y: lo.y, z: lo.z},
    {x: hi.x, y: hi.y, z: lo.z},
    {x: lo.x, y: hi.y, z: lo.z},
    {x: lo.x, y: lo.y, z: lo.z},

    {move: {x: lo.x, y: lo.y, z: hi.z}},
    {x: hi.x, y: lo.y, z: hi.z},
    {x: hi.x, y: hi.y, z: hi.z},
    {x: lo.x, y: hi.y, z: hi.z},
    {x: lo.x, y: lo.y, z: hi.z},
  ],
})

let axes = [['red', {x: 1, y: 0, z: 0}], ['green', {x: 0, y: 1, z: 0}],
  ['blue', {x: 0, y: 0, z: 1}]];
for (let [color, dir] of axes) {
  let d = size / 10;
  new Zdog.Shape({
    addTo: workspace,
    stroke: size / 100,
    color: color,
    path: [{x: 0, y: 0, z: 0}, {x: dir.x * d, y: dir.y * d, z: dir.z * d}],
  })
}

let curPt = [{x: 0, y: 0, z: 0}, {x: 0, y: 0, z: 0}]

function lineTo(ch, pt, cut) {
  new Zdog.Shape({
    addTo: workspace,
    stroke: cut ? size / 150 : size / 600,
    color: channelColors[ch - 1],
    path: [curPt[ch - 1], pt],
  })
  curPt[ch - 1] = pt
}

for (cmd of cmds) {
  if (cmd.moveTo !== undefined) {
    curPt[cmd.channel - 1] = cmd.moveTo
  } else if (cmd.lineTo !== undefined) {
    lineTo(cmd.channel, cmd.lineTo, cmd.cut)
  }
}

config.tools.forEach(function(pt, idx) {
  new Zdog.Shape({
    addTo: workspace,
    stroke: size / 40,
    color: channelColors[idx],
    translate: pt,
  })
})

function animate() {
  illo.updateRenderGraph()
  if (isDragging) {
    requestAnimationFrame(animate)
  }
}
animate();
    </script>
 </body>
</html>
`
