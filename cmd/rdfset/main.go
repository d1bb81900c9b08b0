// Command rdfset serves an in-memory dataset over HTTP.
//
// RDFSET_CONFIG names a YAML options file, RDFSET_PORT the listening port
// (default 8086) and RDFSET_FILES=1 lets JSON-LD documents load file: contexts.
// Metrics are served at /metrics.
package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cors "github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/underlay/rdfset"
	"github.com/underlay/rdfset/api"
	"github.com/underlay/rdfset/loader"
)

var path = os.Getenv("RDFSET_CONFIG")
var port = os.Getenv("RDFSET_PORT")
var files = os.Getenv("RDFSET_FILES") == "1"

const defaultPort = "8086"

func options() (*rdfset.Options, error) {
	if path == "" {
		return &rdfset.Options{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return rdfset.LoadOptions(file)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	opts, err := options()
	if err != nil {
		logger.Fatal("reading options", zap.String("path", path), zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	ds, err := rdfset.Open(opts, logger, registry)
	if err != nil {
		logger.Fatal("opening dataset", zap.Error(err))
	}
	defer ds.Close()
	ds.Log()

	documents := loader.NewDocumentLoader()
	documents.Files = files

	handler := cors.New(cors.Options{
		AllowCredentials: false,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		ExposedHeaders: []string{"Content-Type"},
	}).Handler(api.NewHandler(ds, documents, logger))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", handler)

	if port == "" {
		port = defaultPort
	}

	logger.Info("listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Error("serving", zap.Error(err))
	}
}
