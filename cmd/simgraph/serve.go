package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/simgraph/simgraph/internal/assets"
	"github.com/simgraph/simgraph/internal/config"
	"github.com/simgraph/simgraph/pkg/graph"
	"github.com/simgraph/simgraph/pkg/layout"
	"github.com/simgraph/simgraph/pkg/provider"
	"github.com/simgraph/simgraph/pkg/scene"
	"github.com/simgraph/simgraph/pkg/stream"
	"github.com/simgraph/simgraph/pkg/view"
	"github.com/simgraph/simgraph/pkg/viewport"
)

func newServeCommand() *cobra.Command {
	var (
		port     int
		host     string
		snapshot string
		baseURL  string
		mode     string
		topK     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the graph server",
		Long: `Serve loads a similarity graph, runs the layout engine, and streams
the rendered scene to browser shells over WebSocket.

The graph comes either from a JSON snapshot file (--snapshot, reloaded
on change) or from a catalog service (--url). Flags override values
from simgraph.yaml in the working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if snapshot != "" {
				cfg.Data.Snapshot = snapshot
			}
			if baseURL != "" {
				cfg.Data.BaseURL = baseURL
			}
			if mode != "" {
				cfg.Engine.Mode = mode
			}
			if cmd.Flags().Changed("top-k") {
				cfg.Engine.TopK = topK
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8930, "Port to serve on")
	cmd.Flags().StringVar(&host, "host", "localhost", "Host to bind to")
	cmd.Flags().StringVarP(&snapshot, "snapshot", "s", "", "Path to a dataset JSON snapshot")
	cmd.Flags().StringVarP(&baseURL, "url", "u", "", "Base URL of the catalog service")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Layout mode: physics or fixed")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 5, "Edges per node")

	return cmd
}

func runServe(cfg *config.Config) error {
	if cfg.Data.Snapshot == "" && cfg.Data.BaseURL == "" {
		return fmt.Errorf("no data source: set --snapshot or --url (or data.snapshot / data.base_url in %s)", config.FileName)
	}

	layoutMode := layout.ParseMode(cfg.Engine.Mode)

	var (
		dataProvider provider.DataProvider
		commands     provider.CommandChannel
		fileProv     *provider.FileProvider
	)
	if cfg.Data.Snapshot != "" {
		fileProv = provider.NewFileProvider(cfg.Data.Snapshot)
		dataProvider = fileProv
		log.Printf("[Serve] Using snapshot %s", cfg.Data.Snapshot)
	} else {
		httpProv := provider.NewHTTPProvider(cfg.Data.BaseURL, nil)
		dataProvider = httpProv
		commands = httpProv
		log.Printf("[Serve] Using catalog service at %s", cfg.Data.BaseURL)
	}

	var gv *view.GraphView
	sink := newHubSink()
	hub := stream.NewHub(
		func(sessionID string) [][]byte { return sink.attachFrames(gv) },
		func(sessionID string, evt stream.Event) { dispatchEvent(gv, evt) },
	)
	sink.hub = hub
	defer hub.Close()

	gv = view.New(view.Options{
		Provider:     dataProvider,
		Commands:     commands,
		Sink:         sink,
		Width:        cfg.Engine.Width,
		Height:       cfg.Engine.Height,
		TopK:         cfg.Engine.TopK,
		IncludeEdges: cfg.Engine.IncludeEdges == nil || *cfg.Engine.IncludeEdges,
		Mode:         layoutMode,
	})
	defer gv.Dispose()

	gv.Load(context.Background())

	if fileProv != nil && (cfg.Data.Watch == nil || *cfg.Data.Watch) {
		if err := fileProv.Watch(func() {
			log.Printf("[Serve] Snapshot changed, reloading")
			gv.Load(context.Background())
		}); err != nil {
			log.Printf("[Serve] Snapshot watch unavailable: %v", err)
		}
		defer fileProv.Close()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(assets.ShellHTML)
	})
	mux.HandleFunc("/ws", hub.HandleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Serve] Listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("[Serve] Received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// dispatchEvent routes one decoded shell event to the engine. Unknown
// event types are dropped; a hostile shell must not be able to crash the
// loop.
func dispatchEvent(gv *view.GraphView, evt stream.Event) {
	switch evt.Type {
	case stream.EventHover:
		gv.Hover(evt.NodeID)
	case stream.EventLeave:
		gv.Leave()
	case stream.EventClick:
		gv.Click(evt.NodeID)
	case stream.EventDragStart:
		gv.DragStart(evt.NodeID)
	case stream.EventDragMove:
		gv.DragMove(evt.X, evt.Y)
	case stream.EventDragEnd:
		gv.DragEnd()
	case stream.EventTransform:
		if evt.Transform != nil {
			gv.SetTransform(*evt.Transform)
		}
	case stream.EventResize:
		gv.Resize(evt.Width, evt.Height)
	case stream.EventFilter:
		gv.SetClusterFilter(evt.Cluster)
	case stream.EventTopK:
		gv.SetTopK(evt.TopK)
	case stream.EventShowEdges:
		if evt.ShowEdges != nil {
			gv.SetShowEdges(*evt.ShowEdges)
		}
	case stream.EventMode:
		gv.SetMode(layout.ParseMode(evt.Mode))
	case stream.EventRegenerate:
		gv.Regenerate()
	default:
		log.Printf("[Serve] Ignoring unknown event type %q", evt.Type)
	}
}

// hubSink adapts the engine sink to the WebSocket hub. It caches the last
// dataset info so late-joining sessions get a legend, and skips encoding
// entirely while nobody is connected, which keeps an idle server cheap.
type hubSink struct {
	hub *stream.Hub

	mu        sync.Mutex
	lastMeta  graph.Metadata
	lastStats []graph.ClusterStat
	hasInfo   bool
}

func newHubSink() *hubSink {
	return &hubSink{}
}

// attachFrames builds the catch-up frames for a fresh session: full scene,
// dataset info, current transform. Encoding happens on the WebSocket
// handler goroutine, so it works from a deep snapshot rather than the live
// scene the engine loop is mutating.
func (s *hubSink) attachFrames(gv *view.GraphView) [][]byte {
	var frames [][]byte

	sc, t := gv.Snapshot()
	if frame, err := stream.EncodeScene(sc, t); err == nil {
		frames = append(frames, frame)
	} else {
		log.Printf("[Serve] Failed to encode scene snapshot: %v", err)
	}

	s.mu.Lock()
	if s.hasInfo {
		if frame, err := stream.EncodeInfo(s.lastMeta, s.lastStats); err == nil {
			frames = append(frames, frame)
		}
	}
	s.mu.Unlock()

	frames = append(frames, stream.EncodeTransform(t))
	return frames
}

func (s *hubSink) connected() bool {
	return s.hub != nil && s.hub.SessionCount() > 0
}

func (s *hubSink) SceneRebuilt(sc *scene.Scene, t viewport.Transform) {
	if !s.connected() {
		return
	}
	frame, err := stream.EncodeScene(sc, t)
	if err != nil {
		log.Printf("[Serve] Failed to encode scene: %v", err)
		return
	}
	s.hub.Broadcast(frame)
}

func (s *hubSink) Patches(patches []scene.Patch) {
	if !s.connected() {
		return
	}
	frame, err := stream.EncodePatches(patches)
	if err != nil {
		log.Printf("[Serve] Failed to encode patches: %v", err)
		return
	}
	s.hub.Broadcast(frame)
}

func (s *hubSink) Positions(nodes []*scene.Node) {
	if !s.connected() {
		return
	}
	s.hub.Broadcast(stream.EncodePositions(nodes))
}

func (s *hubSink) Transform(t viewport.Transform) {
	if !s.connected() {
		return
	}
	s.hub.Broadcast(stream.EncodeTransform(t))
}

func (s *hubSink) DatasetInfo(meta graph.Metadata, stats []graph.ClusterStat) {
	s.mu.Lock()
	s.lastMeta = meta
	s.lastStats = stats
	s.hasInfo = true
	s.mu.Unlock()

	if !s.connected() {
		return
	}
	frame, err := stream.EncodeInfo(meta, stats)
	if err != nil {
		log.Printf("[Serve] Failed to encode dataset info: %v", err)
		return
	}
	s.hub.Broadcast(frame)
}

func (s *hubSink) InlineError(msg string) {
	if !s.connected() {
		return
	}
	s.hub.Broadcast(stream.EncodeError(msg))
}

func (s *hubSink) Status(msg string) {
	if !s.connected() {
		return
	}
	s.hub.Broadcast(stream.EncodeStatus(msg))
}
