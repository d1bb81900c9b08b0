// Package api serves the graphs of a dataset over HTTP.
//
//	GET    /graphs             list graph labels as JSON
//	POST   /graphs             load a document into the dataset
//	GET    /graph?name=<label> read one graph as N-Triples or JSON-LD
//	PUT    /graph?name=<label> replace one graph with a document
//	DELETE /graph?name=<label> remove one graph
//
// A missing name selects the unnamed default graph. Every write runs as one
// transaction, flushed on success and discarded on failure.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/gorilla/mux"
	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/underlay/rdfset"
	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/loader"
	"github.com/underlay/rdfset/types"
)

const (
	jsonMime     = "application/json"
	jsonLdMime   = "application/ld+json"
	nQuadsMime   = "application/n-quads"
	nTriplesMime = "application/n-triples"
)

var errUnsupportedMedia = errors.New("unsupported media type")

// Handler is an http.Handler over a dataset
type Handler struct {
	ds        rdfset.Dataset
	lock      *sync.RWMutex
	documents ld.DocumentLoader
	logger    *zap.Logger
	router    *mux.Router
}

// NewHandler returns a Handler over ds. Remote JSON-LD contexts are resolved
// with documents, which may be nil.
func NewHandler(ds rdfset.Dataset, documents ld.DocumentLoader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Handler{
		ds:        ds,
		lock:      rdfset.Wrap(ds).Locker(),
		documents: documents,
		logger:    logger,
		router:    mux.NewRouter(),
	}

	h.router.HandleFunc("/graphs", h.handleGetGraphs).Methods(http.MethodGet).Name("GetGraphs")
	h.router.HandleFunc("/graphs", h.handlePostGraphs).Methods(http.MethodPost).Name("PostGraphs")
	h.router.HandleFunc("/graph", h.handleGetGraphJSONLD).Methods(http.MethodGet).
		HeadersRegexp("Accept", `application/ld\+json`).Name("GetGraphJSONLD")
	h.router.HandleFunc("/graph", h.handleGetGraph).Methods(http.MethodGet).Name("GetGraph")
	h.router.HandleFunc("/graph", h.handlePutGraph).Methods(http.MethodPut).Name("PutGraph")
	h.router.HandleFunc("/graph", h.handleDeleteGraph).Methods(http.MethodDelete).Name("DeleteGraph")

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.router.ServeHTTP(w, r) }

func graphName(r *http.Request) types.GraphName {
	return types.FromLabel(r.URL.Query().Get("name"))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("route", mux.CurrentRoute(r).GetName()),
			zap.Error(err),
		)
	}
	http.Error(w, err.Error(), status)
}

func (h *Handler) handleGetGraphs(w http.ResponseWriter, r *http.Request) {
	h.lock.RLock()
	labels := []string{}
	for name := range h.ds.GraphNames() {
		labels = append(labels, name.Label())
	}
	h.lock.RUnlock()

	w.Header().Set("Content-Type", jsonMime)
	_ = json.NewEncoder(w).Encode(labels)
}

// snapshot copies the triples of the named graph under the read lock
func (h *Handler) snapshot(name types.GraphName) ([]types.Triple, bool) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	g, has := h.ds.Graph(name)
	if !has {
		return nil, false
	}
	return slices.Collect(g.Triples()), true
}

func (h *Handler) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	triples, has := h.snapshot(graphName(r))
	if !has {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", nTriplesMime)
	_, _ = w.Write(types.EncodeTriples(triples))
}

func (h *Handler) handleGetGraphJSONLD(w http.ResponseWriter, r *http.Request) {
	name := graphName(r)
	triples, has := h.snapshot(name)
	if !has {
		http.NotFound(w, r)
		return
	}

	// JSON-LD has no syntax for quoted triples
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, len(triples))
	for _, t := range triples {
		if len(t.Quoted()) > 0 {
			continue
		}
		quads = append(quads, ld.NewQuad(t.Subject, t.Predicate, t.Object, types.DefaultLabel))
	}
	dataset.Graphs[types.DefaultLabel] = quads

	opts := ld.NewJsonLdOptions(name.Value())
	opts.UseNativeTypes = true
	result, err := ld.NewJsonLdApi().FromRDF(dataset, opts)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", jsonLdMime)
	_ = json.NewEncoder(w).Encode(result)
}

// read parses the request body according to its Content-Type
func (h *Handler) read(r *http.Request) ([]*graph.Memory, error) {
	switch r.Header.Get("Content-Type") {
	case nQuadsMime, nTriplesMime:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return loader.FromNQuads(string(body))
	case jsonLdMime, jsonMime:
		var doc interface{}
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decoding JSON-LD")
		}
		return loader.FromJSONLD(doc, r.URL.Query().Get("base"), h.documents)
	default:
		return nil, errUnsupportedMedia
	}
}

func (h *Handler) readOrFail(w http.ResponseWriter, r *http.Request) ([]*graph.Memory, bool) {
	graphs, err := h.read(r)
	if err == errUnsupportedMedia {
		h.fail(w, r, http.StatusUnsupportedMediaType, err)
		return nil, false
	} else if err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	return graphs, true
}

// write runs f as one transaction under the write lock
func (h *Handler) write(f func() error) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	if err := f(); err != nil {
		if derr := h.ds.Discard(); derr != nil {
			h.logger.Error("discarding transaction", zap.Error(derr))
		}
		return err
	}
	return h.ds.Flush()
}

func status(err error) int {
	if errors.Is(err, rdfset.ErrUnsupported) {
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

func (h *Handler) handlePostGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, ok := h.readOrFail(w, r)
	if !ok {
		return
	}

	if err := h.write(func() error { return loader.Into(h.ds, graphs) }); err != nil {
		h.fail(w, r, status(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePutGraph replaces the named graph with every triple of the document,
// whichever graph of the document they were in
func (h *Handler) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	graphs, ok := h.readOrFail(w, r)
	if !ok {
		return
	}

	name := graphName(r)
	replacement := graph.New(name)
	for _, g := range graphs {
		graph.Merge(replacement, g)
	}

	err := h.write(func() error {
		if _, err := h.ds.RemoveGraph(name); err != nil {
			return err
		}
		_, err := h.ds.AddGraph(replacement)
		return err
	})
	if err != nil {
		h.fail(w, r, status(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	name := graphName(r)
	var removed bool
	err := h.write(func() (err error) {
		removed, err = h.ds.RemoveGraph(name)
		return
	})
	if err != nil {
		h.fail(w, r, status(err), err)
		return
	} else if !removed {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
