package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/leftmike/gcsim"
)

type positionDoc struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

type channelDoc struct {
	Channel     int         `yaml:"channel"`
	Line        int         `yaml:"line"`
	Finished    bool        `yaml:"finished"`
	Tool        positionDoc `yaml:"tool"`
	Stack       []string    `yaml:"stack"`
	Breakpoints []int       `yaml:"breakpoints,omitempty"`
}

type syncDoc struct {
	Channel int    `yaml:"channel"`
	Line    int    `yaml:"line"`
	Kind    string `yaml:"kind"`
}

type stateDoc struct {
	Session    string             `yaml:"session"`
	Speed      float64            `yaml:"speed"`
	Playing    bool               `yaml:"playing"`
	Running    bool               `yaml:"running"`
	Channels   []channelDoc       `yaml:"channels"`
	Variables  map[string]float64 `yaml:"variables,omitempty"`
	SyncPoints []syncDoc          `yaml:"sync_points,omitempty"`
}

// YAML encodes st with one-based channel and line numbers, as shown in the panels.
func YAML(st gcsim.State) ([]byte, error) {
	doc := stateDoc{
		Session: st.Session,
		Speed:   st.Speed,
		Playing: st.Playing,
		Running: st.Running,
	}

	for ch := gcsim.Channel(0); ch < gcsim.NumChannels; ch += 1 {
		cd := channelDoc{
			Channel:  ch.Number(),
			Line:     st.Line[ch] + 1,
			Finished: st.Finished[ch],
			Tool: positionDoc{
				X: st.Tool[ch].X,
				Y: st.Tool[ch].Y,
				Z: st.Tool[ch].Z,
				A: st.Tool[ch].A,
				B: st.Tool[ch].B,
			},
			Stack: st.Stacks[ch],
		}
		for _, line := range st.Breakpoints[ch] {
			cd.Breakpoints = append(cd.Breakpoints, line+1)
		}
		doc.Channels = append(doc.Channels, cd)
	}

	if len(st.Variables) > 0 {
		doc.Variables = map[string]float64{}
		for idx, val := range st.Variables {
			doc.Variables[fmt.Sprintf("#%d", idx)] = val
		}
	}
	for _, sp := range st.SyncPoints {
		doc.SyncPoints = append(doc.SyncPoints, syncDoc{
			Channel: sp.Channel.Number(),
			Line:    sp.Line + 1,
			Kind:    string(sp.Kind),
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("render: encode state: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("render: encode state: %w", err)
	}
	return buf.Bytes(), nil
}
