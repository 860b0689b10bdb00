package server

import "net/http"

// dispatch is the protocol multiplexer: every inbound request is first
// tested against the REST router's path prefix; everything else belongs to
// the MCP transport. The dispatch is ordered and mutually exclusive — no
// path is ever handled by both surfaces.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if s.app.Router != nil && s.app.Router.IsAPIRequest(r.URL.Path) {
		s.app.Router.ServeHTTP(w, r)
		return
	}

	if s.app.Gateway != nil {
		if h := s.app.Gateway.HTTPHandler(); h != nil {
			h.ServeHTTP(w, r)
			return
		}
	}

	s.handleNotFound(w, r)
}

// handleNotFound returns a JSON 404 for paths neither surface claims.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
