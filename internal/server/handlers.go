package server

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"path"
	"strings"
)

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// handleIndex lists every vault document as a link to its rendered page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	docs, err := s.pipeline.Vault().List(r.Context())
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}

	var body bytes.Buffer
	body.WriteString("<h1>Vault</h1>\n<ul>\n")
	for _, doc := range docs {
		fmt.Fprintf(&body, `<li><a href="/doc/%s">%s</a></li>`+"\n",
			html.EscapeString(doc), html.EscapeString(strings.TrimSuffix(doc, ".md")))
	}
	body.WriteString("</ul>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(renderPage("Vault", body.Bytes()))
}

// handleDoc renders one document with transclusions resolved.
func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("path")
	rendered, err := s.pipeline.RenderHTML(r.Context(), target)
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}

	fallback := strings.TrimSuffix(path.Base(target), ".md")
	title := documentTitle(rendered, fallback)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(renderPage(title, rendered))
}
