package loader

import (
	"bytes"
	"net/url"
	"os"

	ld "github.com/piprate/json-gold/ld"
)

// DocumentLoader is an ld.DocumentLoader that never touches the network.
// It serves documents registered with Add, and file: URIs when Files is set.
type DocumentLoader struct {
	Files     bool
	documents map[string][]byte
}

// NewDocumentLoader returns an empty DocumentLoader
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{documents: map[string][]byte{}}
}

// Add registers the JSON document served for uri
func (dl *DocumentLoader) Add(uri string, document []byte) {
	dl.documents[uri] = document
}

// LoadDocument returns a RemoteDocument containing the contents of the
// JSON-LD resource from the given URL.
func (dl *DocumentLoader) LoadDocument(uri string) (*ld.RemoteDocument, error) {
	if data, has := dl.documents[uri]; has {
		document, err := ld.DocumentFromReader(bytes.NewReader(data))
		if err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
		return &ld.RemoteDocument{DocumentURL: uri, Document: document}, nil
	}

	parsedURL, err := url.Parse(uri)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}

	if parsedURL.Scheme == "file" && dl.Files {
		file, err := os.Open(parsedURL.Path)
		if err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
		defer file.Close()

		document, err := ld.DocumentFromReader(file)
		if err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
		return &ld.RemoteDocument{DocumentURL: uri, Document: document}, nil
	}

	err = ld.NewJsonLdError(ld.LoadingDocumentFailed, "unsupported document: "+uri)
	return nil, err
}
