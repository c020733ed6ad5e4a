// Package export renders outlines as markdown reports, SVG and PNG images.
//
// This file implements the preview server: an HTML page showing an outline
// file rendered as SVG, with live reload via Server-Sent Events (SSE). When the
// file changes, connected browsers receive reload events.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vanderheijden86/flattree/pkg/analysis"
	"github.com/vanderheijden86/flattree/pkg/loader"
	"github.com/vanderheijden86/flattree/pkg/model"
	"github.com/vanderheijden86/flattree/pkg/outline"
	"github.com/vanderheijden86/flattree/pkg/watch"
)

// EventsPath is the SSE endpoint the reload script connects to.
const EventsPath = "/__preview__/events"

// PreviewServer serves one outline file and reloads browsers when it changes.
type PreviewServer struct {
	path    string
	watcher *watch.Watcher

	// clients holds all connected SSE clients
	mu      sync.RWMutex
	clients map[chan struct{}]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPreviewServer creates a preview server for the outline file at path.
func NewPreviewServer(path string, opts ...watch.Option) (*PreviewServer, error) {
	w, err := watch.New(path, opts...)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PreviewServer{
		path:    w.Path(),
		watcher: w,
		clients: make(map[chan struct{}]struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start begins watching the outline file.
func (s *PreviewServer) Start() error {
	if err := s.watcher.Start(); err != nil {
		return err
	}
	go s.watchLoop()
	return nil
}

// Stop shuts down the watcher and disconnects every client.
func (s *PreviewServer) Stop() {
	s.cancel()
	s.watcher.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.clients {
		close(ch)
	}
	s.clients = make(map[chan struct{}]struct{})
}

// ClientCount returns the number of connected clients.
func (s *PreviewServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *PreviewServer) watchLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case _, ok := <-s.watcher.Changed():
			if !ok {
				return
			}
			s.notifyClients()
		case err, ok := <-s.watcher.Errors():
			if !ok {
				return
			}
			log.Printf("preview: watch %s: %v", s.path, err)
		}
	}
}

// notifyClients sends a reload signal to all connected SSE clients.
func (s *PreviewServer) notifyClients() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.clients {
		select {
		case ch <- struct{}{}:
		default:
			// Client already has a reload pending.
		}
	}
}

// SSEHandler returns an HTTP handler for the SSE endpoint.
func (s *PreviewServer) SSEHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		clientCh := make(chan struct{}, 1)
		s.mu.Lock()
		s.clients[clientCh] = struct{}{}
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			delete(s.clients, clientCh)
			s.mu.Unlock()
		}()

		fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-s.ctx.Done():
				return
			case _, ok := <-clientCh:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: reload\ndata: {\"action\":\"reload\"}\n\n")
				flusher.Flush()
			}
		}
	}
}

// Handler serves the page at "/", the bare drawing at "/tree.svg", the
// markdown report at "/outline.md" and the SSE endpoint.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", liveReloadMiddleware(http.HandlerFunc(s.servePage)))
	mux.HandleFunc("/tree.svg", s.serveSVG)
	mux.HandleFunc("/outline.md", s.serveMarkdown)
	mux.HandleFunc(EventsPath, s.SSEHandler())
	return mux
}

// ListenAndServe serves Handler on addr until ctx is cancelled.
func (s *PreviewServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// render loads the outline and draws it.
func (s *PreviewServer) render() (*model.Outline, []byte, error) {
	o, err := loader.LoadOutline(s.path)
	if err != nil {
		return nil, nil, err
	}
	ctl := NewPixelControl()
	if err := outline.Populate(ctl, o); err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := RenderSVG(ctl, &buf, 0, 0); err != nil {
		return nil, nil, err
	}
	return o, buf.Bytes(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
.meta { color: #666; font-size: 0.9em; }
.error { color: #b00020; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Err}}<p class="error">{{.Err}}</p>{{else}}
<p class="meta">{{.Stats.Nodes}} items, {{.Stats.Branches}} branches, depth {{.Stats.MaxDepth}}. <a href="/outline.md">markdown</a></p>
{{.SVG}}
{{end}}
</body>
</html>
`))

type pageData struct {
	Title string
	Err   string
	Stats analysis.Stats
	SVG   template.HTML
}

func (s *PreviewServer) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := pageData{Title: filepath.Base(s.path)}
	o, svgData, err := s.render()
	if err != nil {
		data.Err = err.Error()
	} else {
		if o.Title != "" {
			data.Title = o.Title
		}
		data.Stats = analysis.Summarize(o)
		if i := bytes.Index(svgData, []byte("<svg")); i >= 0 {
			svgData = svgData[i:]
		}
		data.SVG = template.HTML(svgData)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("preview: render page: %v", err)
	}
}

func (s *PreviewServer) serveSVG(w http.ResponseWriter, r *http.Request) {
	_, svgData, err := s.render()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svgData)
}

func (s *PreviewServer) serveMarkdown(w http.ResponseWriter, r *http.Request) {
	o, err := loader.LoadOutline(s.path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	md, err := GenerateMarkdown(o, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}

// LiveReloadScript connects to the SSE endpoint and reloads on events.
const LiveReloadScript = `<script>
(function() {
  if (typeof(EventSource) === 'undefined') return;
  var reconnectDelay = 1000;
  var maxReconnectDelay = 30000;

  function connect() {
    var es = new EventSource('` + EventsPath + `');

    es.addEventListener('connected', function() {
      reconnectDelay = 1000;
    });

    es.addEventListener('reload', function() {
      location.reload();
    });

    es.onerror = function() {
      es.close();
      setTimeout(connect, reconnectDelay);
      reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
    };
  }

  connect();
})();
</script>`

// liveReloadMiddleware injects the live-reload script into HTML responses.
func liveReloadMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		irw := &injectingResponseWriter{
			ResponseWriter: w,
			inject:         []byte(LiveReloadScript),
		}
		next.ServeHTTP(irw, r)
		// Handles HTML without </html>.
		irw.Flush()
	})
}

// injectingResponseWriter buffers an HTML response and injects a script
// before </body>.
type injectingResponseWriter struct {
	http.ResponseWriter
	inject    []byte
	injected  bool
	buf       []byte
	committed bool
	status    int
}

func (w *injectingResponseWriter) WriteHeader(code int) {
	w.status = code
}

func (w *injectingResponseWriter) Write(b []byte) (int, error) {
	if w.committed {
		return w.ResponseWriter.Write(b)
	}

	w.buf = append(w.buf, b...)

	if idx := bytes.LastIndex(w.buf, []byte("</body>")); idx >= 0 && !w.injected {
		newBuf := make([]byte, 0, len(w.buf)+len(w.inject))
		newBuf = append(newBuf, w.buf[:idx]...)
		newBuf = append(newBuf, w.inject...)
		newBuf = append(newBuf, w.buf[idx:]...)
		w.buf = newBuf
		w.injected = true
	}

	if bytes.Contains(w.buf, []byte("</html>")) {
		w.commit()
		_, err := w.ResponseWriter.Write(w.buf)
		return len(b), err
	}
	return len(b), nil
}

func (w *injectingResponseWriter) commit() {
	w.committed = true
	if w.status != 0 {
		w.ResponseWriter.WriteHeader(w.status)
	}
}

// Flush writes any remaining buffered content.
func (w *injectingResponseWriter) Flush() {
	if !w.committed && len(w.buf) > 0 {
		w.commit()
		if !w.injected && isHTML(w.Header().Get("Content-Type")) {
			w.buf = append(w.buf, w.inject...)
		}
		w.ResponseWriter.Write(w.buf)
	} else if !w.committed && w.status != 0 {
		w.commit()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isHTML(contentType string) bool {
	return contentType == "" || strings.HasPrefix(contentType, "text/html")
}
