// Package stream carries the rendered scene to thin browser shells over
// WebSocket: structural and style patches, per-frame positions, and the
// viewport transform go out as binary frames; pointer and command events
// come back in as JSON.
package stream

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/scene"
	"github.com/simgraph/simgraph/pkg/viewport"
)

// FrameType identifies an outbound binary frame.
type FrameType uint8

const (
	// FrameScene is a full scene snapshot (sent once per attach/rebuild).
	FrameScene FrameType = 0x00
	// FramePatches is an incremental scene patch batch.
	FramePatches FrameType = 0x01
	// FramePositions is a per-animation-frame position update.
	FramePositions FrameType = 0x02
	// FrameTransform is a viewport transform update.
	FrameTransform FrameType = 0x03
	// FrameInfo carries dataset metadata and cluster stats for legends.
	FrameInfo FrameType = 0x04
	// FrameError surfaces a non-fatal engine error inline.
	FrameError FrameType = 0x05
	// FrameStatus reports long-running command progress (regeneration).
	FrameStatus FrameType = 0x06
)

// sceneSnapshot is the JSON payload of a FrameScene.
type sceneSnapshot struct {
	Nodes []*scene.Node      `json:"nodes"`
	Edges []snapshotEdge     `json:"edges"`
	View  viewport.Transform `json:"view"`
}

type snapshotEdge struct {
	Key        string          `json:"key"`
	SourceID   string          `json:"source_id"`
	TargetID   string          `json:"target_id"`
	Similarity float64         `json:"similarity"`
	Style      scene.EdgeStyle `json:"style"`
}

// datasetInfo is the JSON payload of a FrameInfo.
type datasetInfo struct {
	Meta  graph.Metadata      `json:"metadata"`
	Stats []graph.ClusterStat `json:"cluster_stats"`
}

// EncodeScene serializes a full scene snapshot plus the current transform.
func EncodeScene(sc *scene.Scene, view viewport.Transform) ([]byte, error) {
	snap := sceneSnapshot{View: view}
	if sc != nil {
		snap.Nodes = sc.Nodes
		snap.Edges = make([]snapshotEdge, len(sc.Edges))
		for i, e := range sc.Edges {
			snap.Edges[i] = snapshotEdge{
				Key:        e.Key(),
				SourceID:   e.Data.SourceID,
				TargetID:   e.Data.TargetID,
				Similarity: e.Data.Similarity,
				Style:      e.Style,
			}
		}
	}
	return encodeJSONFrame(FrameScene, snap)
}

// EncodePatches serializes an incremental patch batch.
func EncodePatches(patches []scene.Patch) ([]byte, error) {
	return encodeJSONFrame(FramePatches, patches)
}

// EncodeInfo serializes dataset metadata and cluster stats.
func EncodeInfo(meta graph.Metadata, stats []graph.ClusterStat) ([]byte, error) {
	return encodeJSONFrame(FrameInfo, datasetInfo{Meta: meta, Stats: stats})
}

// EncodeError serializes an inline error message.
func EncodeError(msg string) []byte {
	buf := []byte{byte(FrameError)}
	return appendString(buf, msg)
}

// EncodeStatus serializes a progress/status line.
func EncodeStatus(msg string) []byte {
	buf := []byte{byte(FrameStatus)}
	return appendString(buf, msg)
}

// EncodePositions serializes current node positions in a compact binary
// layout: count, then (id, x, y) per node. This frame dominates bandwidth
// in physics mode, hence no JSON.
func EncodePositions(nodes []*scene.Node) []byte {
	buf := []byte{byte(FramePositions)}
	buf = appendUvarint(buf, uint64(len(nodes)))
	for _, n := range nodes {
		buf = appendString(buf, n.Data.ID)
		buf = appendFloat(buf, n.X)
		buf = appendFloat(buf, n.Y)
	}
	return buf
}

// EncodeTransform serializes the viewport transform.
func EncodeTransform(t viewport.Transform) []byte {
	buf := []byte{byte(FrameTransform)}
	buf = appendFloat(buf, t.TranslateX)
	buf = appendFloat(buf, t.TranslateY)
	buf = appendFloat(buf, t.Scale)
	return buf
}

func encodeJSONFrame(ft FrameType, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", ft, err)
	}
	buf := make([]byte, 0, len(body)+6)
	buf = append(buf, byte(ft))
	buf = appendUvarint(buf, uint64(len(body)))
	return append(buf, body...), nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return append(buf, tmp[:n]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendFloat(buf []byte, f float64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(f))
	return append(buf, tmp[:]...)
}

// EventType names an inbound shell event.
type EventType string

const (
	EventHover      EventType = "hover"
	EventLeave      EventType = "leave"
	EventClick      EventType = "click"
	EventDragStart  EventType = "drag_start"
	EventDragMove   EventType = "drag_move"
	EventDragEnd    EventType = "drag_end"
	EventTransform  EventType = "transform"
	EventResize     EventType = "resize"
	EventFilter     EventType = "filter"
	EventTopK       EventType = "top_k"
	EventShowEdges  EventType = "show_edges"
	EventMode       EventType = "mode"
	EventRegenerate EventType = "regenerate"
)

// Event is one inbound shell message. Fields beyond Type are populated per
// event type; pointer coordinates are pre-viewport (the shell inverts its
// own transform before sending).
type Event struct {
	Type      EventType           `json:"type"`
	NodeID    string              `json:"node_id,omitempty"`
	X         float64             `json:"x,omitempty"`
	Y         float64             `json:"y,omitempty"`
	Width     float64             `json:"width,omitempty"`
	Height    float64             `json:"height,omitempty"`
	Cluster   *int                `json:"cluster,omitempty"`
	TopK      int                 `json:"top_k,omitempty"`
	ShowEdges *bool               `json:"show_edges,omitempty"`
	Mode      string              `json:"mode,omitempty"`
	Transform *viewport.Transform `json:"transform,omitempty"`
}

// DecodeEvent parses an inbound shell message.
func DecodeEvent(data []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if evt.Type == "" {
		return Event{}, errors.New("decode event: missing type")
	}
	return evt, nil
}
